package render

import (
	"bytes"
	"strings"
)

// stampPrefix opens the banner line carrying the generation time.
const stampPrefix = "* Created: "

var licenseLines = []string{
	"Copyright 2009-2011 Rafael Gutierrez Martinez",
	"Copyright 2012-2013 Welma WEB MKT LABS, S.L.",
	"Copyright 2014-2016 Where Ideas Simply Come True, S.L.",
	"",
	`Licensed under the Apache License, Version 2.0 (the "License");`,
	"you may not use this file except in compliance with the License.",
	"You may obtain a copy of the License at",
	"",
	"    http://www.apache.org/licenses/LICENSE-2.0",
	"",
	"Unless required by applicable law or agreed to in writing, software",
	`distributed under the License is distributed on an "AS IS" BASIS,`,
	"WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.",
	"See the License for the specific language governing permissions and",
	"limitations under the License.",
}

const bannerWidth = 75

// License returns the banner opening every generated PHP file, stamped with
// created.
func License(padding, created string) string {
	var b strings.Builder
	b.WriteString(padding + "/* " + strings.Repeat("=", bannerWidth) + "\n")
	b.WriteString(padding + " * File generated automatically by Nabu-3.\n")
	b.WriteString(padding + " * You can modify this file if you need to add more functionalities.\n")
	b.WriteString(padding + " * " + strings.Repeat("-", bannerWidth) + "\n")
	b.WriteString(padding + " " + stampPrefix + created + "\n")
	b.WriteString(padding + " * " + strings.Repeat("=", bannerWidth) + "\n")
	for _, l := range licenseLines {
		b.WriteString(strings.TrimRight(padding+" * "+l, " ") + "\n")
	}
	b.WriteString(padding + " */\n\n")
	return b.String()
}

// IsStamp reports whether line is the banner line carrying the generation
// time. Files differing only in that line hold the same code.
func IsStamp(line []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte(stampPrefix))
}

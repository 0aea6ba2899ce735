package prompts

import (
	"github.com/charmbracelet/huh"

	"github.com/nabu-3/sdkgen/internal/config"
)

// GenFields returns the form inputs of the options cfg leaves empty, bound
// to the fields of cfg.
func GenFields(cfg *config.Config) []huh.Field {
	var fields []huh.Field
	for _, name := range cfg.Missing() {
		switch name {
		case "author":
			fields = append(fields, huh.NewInput().
				Title("Author name").
				Validate(requiredValidator("author")).
				Value(&cfg.Author))
		case "author_email":
			fields = append(fields, huh.NewInput().
				Title("Author email").
				Placeholder("dev@nabu-3.com").
				Validate(emailValidator).
				Value(&cfg.AuthorEmail))
		case "schema":
			fields = append(fields, huh.NewInput().
				Title("Database schema").
				Placeholder("nabu-3").
				Validate(requiredValidator("schema")).
				Value(&cfg.Schema))
		case "target":
			fields = append(fields, huh.NewInput().
				Title("Target directory").
				Placeholder("./src").
				Validate(requiredValidator("target")).
				Value(&cfg.Target))
		}
	}
	return fields
}

// RunGenForm asks for the generation options cfg leaves empty.
func RunGenForm(cfg *config.Config) error {
	fields := GenFields(cfg)
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(Theme()).Run()
}

// RunTableForm asks for the table to generate when none was given.
func RunTableForm(table *string, tables []string) error {
	if len(tables) == 0 {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Table").
				Placeholder("nb_site").
				Validate(requiredValidator("table")).
				Value(table),
		)).WithTheme(Theme()).Run()
	}
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Table").
			Options(huh.NewOptions(tables...)...).
			Height(10).
			Value(table),
	)).WithTheme(Theme()).Run()
}

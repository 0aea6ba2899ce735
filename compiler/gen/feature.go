package gen

var (
	// FeatureListClass generates a <Class>List companion for every table
	// class.
	FeatureListClass = Feature{
		Name:        "list",
		Stage:       Stable,
		Default:     true,
		Description: "Generates a CNabuDataObjectList companion class indexed by the primary key",
	}

	// FeatureXMLAdapters generates the XML adapter and XML list classes of
	// entities that carry an xml section in the manifest.
	FeatureXMLAdapters = Feature{
		Name:        "xml",
		Stage:       Beta,
		Default:     false,
		Description: "Generates CNabuXML adapters to serialize entities as XML branches",
	}

	// FeatureSidecar writes the <Class>.json descriptor next to every table
	// class.
	FeatureSidecar = Feature{
		Name:        "sidecar",
		Stage:       Stable,
		Default:     true,
		Description: "Writes the storage descriptor of each table class as a JSON sidecar",
	}

	// FeatureSkipUnchanged leaves files untouched when their content would
	// not change, keeping modification times stable for watchers.
	FeatureSkipUnchanged = Feature{
		Name:        "skip-unchanged",
		Stage:       Alpha,
		Default:     true,
		Description: "Compares content hashes and skips rewriting identical files",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureListClass,
		FeatureXMLAdapters,
		FeatureSidecar,
		FeatureSkipUnchanged,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested in the
	// integration environment.
	Experimental

	// Alpha features are features whose initial development was finished, tested
	// on the infra of the project, but may still miss some edge cases.
	Alpha

	// Beta features are Alpha features that were added to the
	// generator and were verified against real schemas.
	Beta

	// Stable features are Beta features that were running for a while on
	// real projects.
	Stable
)

// String returns the lowercase stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	}
	return "unknown"
}

// A Feature of the generator. Enabled features are listed in Config.Features.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// FeatureByName returns the declared feature named name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// DefaultFeatures returns the features enabled by default.
func DefaultFeatures() []Feature {
	var out []Feature
	for _, f := range AllFeatures {
		if f.Default {
			out = append(out, f)
		}
	}
	return out
}

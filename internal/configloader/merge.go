package configloader

import (
	"maps"
	"slices"

	"github.com/yaklabco/prhdesc/pkg/config"
)

// Overrides holds values set explicitly on the command line.
// Nil fields leave the configuration unchanged.
type Overrides struct {
	RulesFolder      *string
	BundledDir       *string
	DisableBundled   *bool
	CheckOnSave      *bool
	EnabledFileTypes map[string]bool
	Ignore           []string
	EngineCommand    *string
	EngineArgs       []string
	Format           *config.OutputFormat
	Jobs             *int
}

// merge applies override on top of base and returns a new configuration.
// The merge follows these rules:
//   - Pointer fields: override wins when non-nil
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
func merge(base *config.Config, override *Overrides) *config.Config {
	if base == nil {
		base = config.NewConfig()
	}
	result := base.Clone()
	if override == nil {
		return result
	}

	setIf(&result.RulesFolder, override.RulesFolder)
	setIf(&result.BundledDir, override.BundledDir)
	setIf(&result.DisableBundled, override.DisableBundled)
	setIf(&result.CheckOnSave, override.CheckOnSave)
	setIf(&result.Engine.Command, override.EngineCommand)
	setIf(&result.Format, override.Format)
	setIf(&result.Jobs, override.Jobs)

	if override.EnabledFileTypes != nil {
		if result.EnabledFileTypes == nil {
			result.EnabledFileTypes = make(map[string]bool, len(override.EnabledFileTypes))
		}
		maps.Copy(result.EnabledFileTypes, override.EnabledFileTypes)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.EngineArgs != nil {
		result.Engine.Args = slices.Clone(override.EngineArgs)
	}

	return result
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

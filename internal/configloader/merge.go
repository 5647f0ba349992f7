package configloader

import "github.com/yaklabco/doxyrst/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Optional booleans: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Input != "" {
		result.Input = override.Input
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.CodeLanguage != "" {
		result.CodeLanguage = override.CodeLanguage
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.KeepExisting != nil {
		result.KeepExisting = override.KeepExisting
	}

	// Test, Watch and ShowPages only come from flags and the environment,
	// so they can be switched on but never off by a later layer.
	if override.Test {
		result.Test = true
	}
	if override.Watch {
		result.Watch = true
	}
	if override.ShowPages {
		result.ShowPages = true
	}

	result.Subdirs = mergeSubdirs(base.Subdirs, override.Subdirs)
	result.Index = mergeIndex(base.Index, override.Index)

	if override.TestEntities != nil {
		result.TestEntities = override.TestEntities
	}
	if override.OpaqueBases != nil {
		result.OpaqueBases = override.OpaqueBases
	}
	if override.LocationRoots != nil {
		result.LocationRoots = override.LocationRoots
	}

	return &result
}

func mergeSubdirs(base, override config.SubdirsConfig) config.SubdirsConfig {
	result := base
	if override.Classes != "" {
		result.Classes = override.Classes
	}
	if override.Templates != "" {
		result.Templates = override.Templates
	}
	if override.Enums != "" {
		result.Enums = override.Enums
	}
	if override.Namespaces != "" {
		result.Namespaces = override.Namespaces
	}
	return result
}

func mergeIndex(base, override config.IndexConfig) config.IndexConfig {
	result := base
	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Glob != nil {
		result.Glob = override.Glob
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}

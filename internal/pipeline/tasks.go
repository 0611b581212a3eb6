// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"log/slog"

	"github.com/invowk/launchpad/internal/modsource"
	"github.com/invowk/launchpad/pkg/fabricmod"
	"github.com/invowk/launchpad/pkg/generate"
	"github.com/invowk/launchpad/pkg/types"
)

const (
	// GenerateMetadataTaskName is the task that writes fabric.mod.json.
	GenerateMetadataTaskName = "generateFabricMetadata"
	// ProcessResourcesTaskName is the task that copies resources into the
	// build output.
	ProcessResourcesTaskName = "processResources"
)

type (
	// MetadataSource supplies the desired metadata; nil means absent.
	MetadataSource func(ctx context.Context) (*fabricmod.ModDescriptor, error)

	// GenerateMetadataConfig configures GenerateMetadataTask.
	GenerateMetadataConfig struct {
		// Source loads the desired metadata on every run.
		Source MetadataSource
		// OutputFile is the fabric.mod.json to maintain.
		OutputFile  types.FilesystemPath
		PrettyPrint bool
	}

	// ProcessResourcesConfig configures ProcessResourcesTask.
	ProcessResourcesConfig struct {
		// Dirs are merged in order; later directories win on conflicts.
		Dirs      []types.FilesystemPath
		OutputDir types.FilesystemPath
	}
)

// DescriptorSource returns a MetadataSource that reads a descriptor file.
func DescriptorSource(path types.FilesystemPath) MetadataSource {
	return func(context.Context) (*fabricmod.ModDescriptor, error) {
		return modsource.Load(path)
	}
}

// GenerateMetadataTask keeps cfg.OutputFile in sync with the descriptor.
func GenerateMetadataTask(cfg GenerateMetadataConfig) Task {
	return Task{
		Name:        GenerateMetadataTaskName,
		Description: "Generates fabric.mod.json from the mod descriptor",
		UpToDate: func(ctx context.Context) (bool, error) {
			desired, err := cfg.Source(ctx)
			if err != nil {
				return false, err
			}
			return generate.IsCurrent(desired, cfg.OutputFile), nil
		},
		Run: func(ctx context.Context) (bool, error) {
			desired, err := cfg.Source(ctx)
			if err != nil {
				return false, err
			}
			outcome, err := generate.Generate(desired, cfg.OutputFile, cfg.PrettyPrint)
			if err != nil {
				return false, err
			}
			slog.Debug("generated metadata", "path", cfg.OutputFile, "outcome", outcome.String())
			return outcome.DidWork(), nil
		},
	}
}

// ProcessResourcesTask mirrors the resource directories, including the
// generated metadata directory, into cfg.OutputDir.
func ProcessResourcesTask(cfg ProcessResourcesConfig) Task {
	return Task{
		Name:        ProcessResourcesTaskName,
		Description: "Copies resources and generated metadata into the build output",
		DependsOn:   []string{GenerateMetadataTaskName},
		UpToDate: func(ctx context.Context) (bool, error) {
			changes, err := SyncResources(ctx, cfg.Dirs, cfg.OutputDir, true)
			if err != nil {
				return false, err
			}
			return changes.Empty(), nil
		},
		Run: func(ctx context.Context) (bool, error) {
			changes, err := SyncResources(ctx, cfg.Dirs, cfg.OutputDir, false)
			if err != nil {
				return false, err
			}
			return !changes.Empty(), nil
		},
	}
}

// StandardTasks registers the metadata and resource tasks on r.
func StandardTasks(r *Runner, gen GenerateMetadataConfig, res ProcessResourcesConfig) error {
	if err := r.Register(GenerateMetadataTask(gen)); err != nil {
		return err
	}
	return r.Register(ProcessResourcesTask(res))
}

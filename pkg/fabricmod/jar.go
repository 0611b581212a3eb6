// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"fmt"

	"github.com/invowk/launchpad/pkg/types"
)

type (
	// NestedJar references a jar bundled inside the mod jar.
	NestedJar struct {
		File types.FilesystemPath
	}

	// Mixins references a mixin configuration file and the side it applies to.
	// An empty Environment means EnvironmentEither.
	Mixins struct {
		Config      types.FilesystemPath
		Environment Environment
	}
)

// Validate returns nil if the jar path is valid.
func (j NestedJar) Validate() error {
	if err := j.File.Validate(); err != nil {
		return fmt.Errorf("nested jar: %w", err)
	}
	return nil
}

// Validate returns nil if the config path and environment are valid.
func (m Mixins) Validate() error {
	if err := m.Config.Validate(); err != nil {
		return fmt.Errorf("mixins config: %w", err)
	}
	if err := m.Environment.Validate(); err != nil {
		return fmt.Errorf("mixins: %w", err)
	}
	return nil
}

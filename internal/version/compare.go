package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConstraint reports whether binaryVersion satisfies the semver constraint
// declared by a pipeline config file (for example ">= 0.3.0, < 1.0.0").
// Returns nil if satisfied, error with details if not.
//
// Rules:
//   - An empty constraint always passes
//   - A "main" binary (development build) always passes
//   - Pre-release binaries are compared by their release part
func CheckConstraint(binaryVersion, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil
	}

	binaryVersion = strings.TrimPrefix(binaryVersion, "v")
	if binaryVersion == "main" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint '%s': %w", constraint, err)
	}

	v, err := semver.NewVersion(binaryVersion)
	if err != nil {
		return fmt.Errorf("invalid binary version '%s': %w", binaryVersion, err)
	}

	if v.Prerelease() != "" {
		release, err := v.SetPrerelease("")
		if err != nil {
			return fmt.Errorf("invalid binary version '%s': %w", binaryVersion, err)
		}

		v = &release
	}

	if ok, errs := c.Validate(v); !ok {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}

		return fmt.Errorf("version %s does not satisfy '%s': %s", v, constraint, strings.Join(reasons, "; "))
	}

	return nil
}

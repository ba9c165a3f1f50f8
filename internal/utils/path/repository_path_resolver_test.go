package pathutils_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/forgefix/prmend/internal/utils/path"
)

func TestRepositoryPathResolverResolve(testInstance *testing.T) {
	homeDirectoryPath := testInstance.TempDir()
	homeExpander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return homeDirectoryPath, nil
	})
	resolver := pathutils.NewRepositoryPathResolverWithExpander(homeExpander)

	testCases := []struct {
		name          string
		candidatePath string
		expectedPath  string
		expectError   bool
	}{
		{
			name:          "absolute_path_preserved",
			candidatePath: "/srv/checkouts/service",
			expectedPath:  "/srv/checkouts/service",
		},
		{
			name:          "home_prefix_expanded",
			candidatePath: "~/checkouts/service",
			expectedPath:  filepath.Join(homeDirectoryPath, "checkouts", "service"),
		},
		{
			name:          "whitespace_trimmed",
			candidatePath: "  /srv/checkouts/service  ",
			expectedPath:  "/srv/checkouts/service",
		},
		{
			name:          "empty_path_rejected",
			candidatePath: "   ",
			expectError:   true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedPath, resolveError := resolver.Resolve(testCase.candidatePath)
			if testCase.expectError {
				require.ErrorIs(testInstance, resolveError, pathutils.ErrRepositoryPathMissing)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}
}

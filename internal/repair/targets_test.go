package repair_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgefix/prmend/internal/repair"
)

const targetsFileNameConstant = "targets.yaml"

func writeTargetsFile(testInstance *testing.T, contents string) string {
	testInstance.Helper()
	targetsFilePath := filepath.Join(testInstance.TempDir(), targetsFileNameConstant)
	require.NoError(testInstance, os.WriteFile(targetsFilePath, []byte(contents), 0o644))
	return targetsFilePath
}

func TestLoadBranchTargets(testInstance *testing.T) {
	testInstance.Run("valid_document", func(testInstance *testing.T) {
		targetsFilePath := writeTargetsFile(testInstance, `targets:
  - branch: feature/add-server-components-tests
    seed_commit: "7c50378"
  - branch: feature/add-integration-tests
    seed_commit: "69f2d0a"
`)

		loadedTargets, loadError := repair.LoadBranchTargets(targetsFilePath)
		require.NoError(testInstance, loadError)
		require.Equal(testInstance, []repair.BranchTarget{
			{Branch: "feature/add-server-components-tests", SeedCommit: "7c50378"},
			{Branch: "feature/add-integration-tests", SeedCommit: "69f2d0a"},
		}, loadedTargets)
	})

	testInstance.Run("seed_commit_is_optional", func(testInstance *testing.T) {
		targetsFilePath := writeTargetsFile(testInstance, `targets:
  - branch: feature/retry-handling
`)

		loadedTargets, loadError := repair.LoadBranchTargets(targetsFilePath)
		require.NoError(testInstance, loadError)
		require.Equal(testInstance, []repair.BranchTarget{{Branch: "feature/retry-handling"}}, loadedTargets)
	})

	testInstance.Run("blank_path", func(testInstance *testing.T) {
		loadedTargets, loadError := repair.LoadBranchTargets("   ")
		require.ErrorIs(testInstance, loadError, repair.ErrTargetsPathRequired)
		require.Nil(testInstance, loadedTargets)
	})

	testInstance.Run("missing_file", func(testInstance *testing.T) {
		missingFilePath := filepath.Join(testInstance.TempDir(), targetsFileNameConstant)

		loadedTargets, loadError := repair.LoadBranchTargets(missingFilePath)
		require.Error(testInstance, loadError)
		require.ErrorContains(testInstance, loadError, "failed to load branch targets")
		require.Nil(testInstance, loadedTargets)
	})

	testInstance.Run("malformed_document", func(testInstance *testing.T) {
		targetsFilePath := writeTargetsFile(testInstance, "targets: [unbalanced")

		loadedTargets, loadError := repair.LoadBranchTargets(targetsFilePath)
		require.Error(testInstance, loadError)
		require.ErrorContains(testInstance, loadError, "failed to parse branch targets")
		require.Nil(testInstance, loadedTargets)
	})

	testInstance.Run("document_without_branches", func(testInstance *testing.T) {
		targetsFilePath := writeTargetsFile(testInstance, `targets:
  - branch: "   "
`)

		loadedTargets, loadError := repair.LoadBranchTargets(targetsFilePath)
		require.ErrorIs(testInstance, loadError, repair.ErrTargetsEmpty)
		require.Nil(testInstance, loadedTargets)
	})
}

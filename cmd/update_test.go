package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/striebwj/coverage-checker/internal/domain"
	domainmocks "github.com/striebwj/coverage-checker/internal/domain/mocks"
)

func TestUpdateCmd_RunsWorkflow(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newUpdateCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	setConfig(t, githubRepositoryKey, "acme/widgets")
	setConfig(t, reportsKey, []map[string]any{
		{"file": "coverage.xml", "label": "unit", "badge": "unit.svg"},
		{"file": "it.xml", "label": "integration"},
	})

	mockWorkflow.On("Update", mock.Anything, mock.MatchedBy(func(args domain.UpdateArgs) bool {
		return len(args.Reports) == 2 &&
			args.Reports[0].Badge == "unit.svg" &&
			args.Reports[1].Label == "integration"
	})).Return(nil)

	cmd.SetArgs([]string{"update"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestUpdateCmd_RequiresRemote(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newUpdateCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	setConfig(t, githubRepositoryKey, "")
	setConfig(t, storageRemoteKey, "")
	setConfig(t, reportsKey, []map[string]any{
		{"file": "coverage.xml", "label": "unit"},
	})

	cmd.SetArgs([]string{"update"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorContains(t, err, "no storage remote")
}

func TestUpdateCmd_PropagatesStoreError(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newUpdateCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	setConfig(t, githubRepositoryKey, "acme/widgets")
	setConfig(t, reportsKey, []map[string]any{
		{"file": "coverage.xml", "label": "unit"},
	})

	mockWorkflow.On("Update", mock.Anything, mock.Anything).Return(domain.ErrStoreWrite)

	cmd.SetArgs([]string{"update"})
	err := cmd.Execute()
	require.ErrorIs(t, err, domain.ErrStoreWrite)
}

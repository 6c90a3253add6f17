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

func TestHistoryCmd_RunsWorkflow(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newHistoryCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	setConfig(t, githubRepositoryKey, "acme/widgets")
	setConfig(t, reportsKey, []map[string]any{
		{"file": "coverage.xml", "label": "unit"},
		{"file": "it.xml", "label": "integration"},
	})

	mockWorkflow.On("History", mock.Anything, mock.MatchedBy(func(args domain.HistoryArgs) bool {
		return len(args.Reports) == 2
	})).Return(nil)

	cmd.SetArgs([]string{"history"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestHistoryCmd_RequiresRepository(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newHistoryCmd())
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

	cmd.SetArgs([]string{"history"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorContains(t, err, githubRepositoryKey)
}

package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/ghmirror/internal/application"
	"github.com/ericfisherdev/ghmirror/internal/domain/model"
)

func TestSearchService_Search(t *testing.T) {
	var calls int
	gh := &mockGitHubClient{
		searchRepositories: func(_ context.Context, q string) ([]model.SearchResult, error) {
			calls++
			assert.Equal(t, "react", q)
			return []model.SearchResult{{ID: 1, FullName: "facebook/react"}}, nil
		},
	}
	svc := application.NewSearchService(gh, application.AllowList{}, discardLogger())

	results, err := svc.Search(context.Background(), "  react ")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, 1, calls, "blank queries never reach the gateway")
}

func TestSearchService_DemoModeIsEmpty(t *testing.T) {
	gh := &mockGitHubClient{
		searchRepositories: func(context.Context, string) ([]model.SearchResult, error) {
			t.Fatal("demo mode must not search")
			return nil, nil
		},
	}
	svc := application.NewSearchService(gh, application.ParseAllowList("facebook/react"), discardLogger())

	results, err := svc.Search(context.Background(), "react")

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_Failures(t *testing.T) {
	gh := &mockGitHubClient{
		searchRepositories: func(_ context.Context, q string) ([]model.SearchResult, error) {
			if q == "limited" {
				return nil, model.NewRateLimitError(0)
			}
			return nil, errBoom
		},
	}
	svc := application.NewSearchService(gh, application.AllowList{}, discardLogger())

	results, err := svc.Search(context.Background(), "broken")
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = svc.Search(context.Background(), "limited")
	assert.True(t, model.IsRateLimited(err))
}

func TestSearchService_Prefetch(t *testing.T) {
	var got []string
	gh := &mockGitHubClient{
		getRepository: func(_ context.Context, owner, name string) (*model.Repository, error) {
			got = append(got, owner+"/"+name)
			return nil, errBoom
		},
	}
	svc := application.NewSearchService(gh, application.AllowList{}, discardLogger())

	svc.Prefetch(context.Background(), "facebook/react")
	svc.Prefetch(context.Background(), "invalid")

	assert.Equal(t, []string{"facebook/react"}, got)
}

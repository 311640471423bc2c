package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactoryReturnsSameRepositories(t *testing.T) {
	db := newTestDB(t)
	f := NewFactory(db, WithPerPage(3))

	first := f.GetRepositories()
	assert.Same(t, first, f.GetRepositories())
	assert.Equal(t, first.Newsfeed, f.GetNewsfeedRepository())

	repo, ok := f.GetNewsfeedRepository().(*newsfeedRepository)
	assert.True(t, ok)
	assert.Equal(t, 3, repo.perPage)
}

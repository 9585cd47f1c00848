package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenreTagsValueScan(t *testing.T) {
	tags := GenreTags{{ID: 28, Name: "动作"}, {ID: 18, Name: "剧情"}}

	val, err := tags.Value()
	require.NoError(t, err)

	var got GenreTags
	require.NoError(t, got.Scan(val))
	assert.Equal(t, tags, got)

	// 数据库驱动也可能返回 []byte
	var fromBytes GenreTags
	require.NoError(t, fromBytes.Scan([]byte(`[{"id":35,"name":"喜剧"}]`)))
	require.Len(t, fromBytes, 1)
	assert.Equal(t, 35, fromBytes[0].ID)
}

func TestGenreTagsNilValue(t *testing.T) {
	var tags GenreTags
	val, err := tags.Value()
	require.NoError(t, err)
	// nil 序列化为空数组而不是 NULL
	assert.Equal(t, "[]", val)

	var got GenreTags
	require.NoError(t, got.Scan(nil))
	assert.Nil(t, got)
}

func TestGenreTagsContains(t *testing.T) {
	tags := GenreTags{{ID: 28, Name: "动作"}}
	assert.True(t, tags.Contains(28))
	assert.False(t, tags.Contains(35))
	assert.False(t, GenreTags(nil).Contains(28))
}

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	rel, err := store.Save("receipts", "payment.pdf", strings.NewReader("%PDF-1.4 receipt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, filepath.Join("receipts")+string(filepath.Separator)))
	assert.Equal(t, ".pdf", filepath.Ext(rel))
	assert.NotContains(t, rel, "payment", "stored names must not reuse the upload name")

	local := store.(*LocalStore)
	data, err := os.ReadFile(filepath.Join(local.root, rel))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 receipt", string(data))

	require.NoError(t, store.Delete(rel))
	_, err = os.Stat(filepath.Join(local.root, rel))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStoreDistinctNames(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	a, err := store.Save("kyc", "pan.jpg", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := store.Save("kyc", "pan.jpg", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	assert.NoError(t, store.Delete(filepath.Join("receipts", "gone.pdf")))
}

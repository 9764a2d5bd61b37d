package driver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"pcrelint/internal/config"
	"pcrelint/internal/diag"
	"pcrelint/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache("pcrelint", t.TempDir())
	require.NoError(t, err)

	fs := source.NewFileSet()
	fs.AddVirtual("other.php", []byte("<?php"))
	file := fs.Get(fs.AddVirtual("a.php", []byte("<?php preg_match('/[0-9]/', $s);")))
	items := []diag.Diagnostic{
		{
			Severity: diag.SevWeak,
			Code:     diag.RgxShortClass,
			Message:  `'[0-9]' can be replaced with '\d'`,
			Primary:  source.Span{File: file.ID, Start: 17, End: 26},
			Notes:    []diag.Note{{Span: source.Span{File: file.ID, Start: 6, End: 16}, Msg: "call"}},
		},
		// anchored elsewhere, not cached
		{Severity: diag.SevError, Code: diag.IOLoadFileError, Primary: source.Span{File: 0}},
	}

	key := digest(7)
	require.NoError(t, cache.Put(key, findingsToPayload(file, items)))

	var payload DiskPayload
	ok, err := cache.Get(key, &payload)
	require.NoError(t, err)
	require.True(t, ok)

	got, ok := payloadToFindings(file, &payload)
	require.True(t, ok)
	if diff := cmp.Diff(items[:1], got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	// same key, different content
	changed := fs.Get(fs.AddVirtual("a.php", []byte("<?php")))
	_, ok = payloadToFindings(changed, &payload)
	require.False(t, ok)
}

func TestDiskCacheMisses(t *testing.T) {
	cache, err := OpenDiskCache("pcrelint", t.TempDir())
	require.NoError(t, err)

	var payload DiskPayload
	ok, err := cache.Get(digest(1), &payload)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Put(digest(2), &DiskPayload{Schema: diskCacheSchemaVersion + 1}))
	ok, err = cache.Get(digest(2), &payload)
	require.NoError(t, err)
	require.False(t, ok, "entries from another schema are misses")

	require.NoError(t, cache.Put(digest(3), &DiskPayload{Schema: diskCacheSchemaVersion}))
	require.NoError(t, cache.DropAll())
	ok, err = cache.Get(digest(3), &payload)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	require.NoError(t, cache.Put(digest(1), &DiskPayload{}))
	ok, err := cache.Get(digest(1), &DiskPayload{})
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, cache.DropAll())
}

func TestApplyOverrides(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{Severity: diag.SevWeak, Code: diag.RgxShortClass})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.SecUntrustedInclusion})
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.SemaOffsetUnsupported})

	applyOverrides(bag, config.Settings{
		Severity: map[diag.Code]diag.Severity{diag.RgxShortClass: diag.SevWarning},
		Disabled: map[diag.Code]bool{diag.SecUntrustedInclusion: true},
	})
	want := []diag.Diagnostic{
		{Severity: diag.SevWarning, Code: diag.RgxShortClass},
		{Severity: diag.SevWarning, Code: diag.SemaOffsetUnsupported},
	}
	if diff := cmp.Diff(want, bag.Items()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRelPath(t *testing.T) {
	require.Equal(t, "src/a.php", relPath("/p/src/a.php", "/p"))
	require.Equal(t, "/q/a.php", relPath("/q/a.php", "/p"))
}

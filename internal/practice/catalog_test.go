package practice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/zikr/internal/storage"
)

func TestBuiltInKeys(t *testing.T) {
	assert.Equal(t, []string{
		"astaghfar_record",
		"durood_record",
		"tasbeeh_laIlaha",
		"tasbeeh_subhanAllah",
		"tasbeeh_alhamdulillah",
		"tasbeeh_allahuAkbar",
		"tasbeeh_subhanAllahWaBihamdihi",
	}, BuiltInKeys())
}

func TestBuiltInsReturnsCopy(t *testing.T) {
	b := BuiltIns()
	b[0].Goal = 1
	assert.Equal(t, 100, BuiltIns()[0].Goal)
}

func TestCatalog_Resolve(t *testing.T) {
	reg, _ := newTestRegistry(t, storage.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, reg.Add(ctx, Entry{ID: "c1", Name: "Custom", Goal: 11}))
	cat := NewCatalog(reg)

	tests := []struct {
		name string
		key  string
	}{
		{"astaghfar", "astaghfar_record"},
		{"Durood", "durood_record"},
		{"laIlaha", "tasbeeh_laIlaha"},
		{"tasbeeh_allahuAkbar", "tasbeeh_allahuAkbar"},
		{"c1", "custom_c1"},
		{"custom_c1", "custom_c1"},
	}
	for _, tc := range tests {
		p, err := cat.Resolve(ctx, tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.key, p.Key, tc.name)
	}

	p, err := cat.Resolve(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, p.Custom)
	assert.Equal(t, 11, p.Goal)

	_, err = cat.Resolve(ctx, "unknown")
	assert.ErrorIs(t, err, ErrUnknownPractice)
	_, err = cat.Resolve(ctx, "  ")
	assert.ErrorIs(t, err, ErrUnknownPractice)
}

func TestCatalog_AllListsBuiltInsThenCustom(t *testing.T) {
	reg, _ := newTestRegistry(t, storage.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, reg.Add(ctx, Entry{ID: "c1", Name: "Custom", Goal: 11}))

	all := NewCatalog(reg).All(ctx)
	require.Len(t, all, len(BuiltIns())+1)
	assert.Equal(t, "astaghfar", all[0].ID)
	assert.Equal(t, "custom_c1", all[len(all)-1].Key)
}

func TestCatalog_Defaults(t *testing.T) {
	reg, _ := newTestRegistry(t, storage.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, reg.Add(ctx, Entry{ID: "c1", Name: "Custom", ArabicText: "نص", Goal: 11}))
	cat := NewCatalog(reg)

	d, ok := cat.Defaults(ctx, "durood_record")
	require.True(t, ok)
	assert.Equal(t, "درودِ شریف", d.DisplayName)
	assert.Equal(t, 100, d.Goal)

	d, ok = cat.Defaults(ctx, "custom_c1")
	require.True(t, ok)
	assert.Equal(t, "Custom", d.DisplayName)
	assert.Equal(t, "نص", d.ArabicText)
	assert.Equal(t, 11, d.Goal)

	_, ok = cat.Defaults(ctx, "custom_missing")
	assert.False(t, ok)
	_, ok = cat.Defaults(ctx, "astaghfar")
	assert.False(t, ok, "defaults are keyed by storage key, not short id")
}

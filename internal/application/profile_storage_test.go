package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/internal/infrastructure/memory"
)

func TestProfileStorage_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := NewProfileStorage(memory.NewKVStore())

	in := completeProfile()
	require.NoError(t, storage.Save(ctx, "dev-1", in))

	out, err := storage.Load(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestProfileStorage_RoundTripEmptyOptionals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := NewProfileStorage(memory.NewKVStore())

	in := entity.NewProfile()
	in.Education = "doctorate"
	require.NoError(t, storage.Save(ctx, "dev-1", in))

	out, err := storage.Load(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestProfileStorage_NotFound(t *testing.T) {
	t.Parallel()
	storage := NewProfileStorage(memory.NewKVStore())
	_, err := storage.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileStorage_CorruptSnapshots(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"not json":           `{"name":`,
		"wrong type":         `{"name":"A","email":"a","password":"p","householdSize":"three","children":0,"schoolNeeds":[],"income":75000,"education":"","priorities":{"safety":5,"walkability":5,"familyFriendly":5,"nightlife":5,"quiet":5}}`,
		"missing priorities": `{"name":"A","email":"a","password":"p","householdSize":1,"children":0,"schoolNeeds":[],"income":75000,"education":""}`,
		"missing quiet":      `{"name":"A","email":"a","password":"p","householdSize":1,"children":0,"schoolNeeds":[],"income":75000,"education":"","priorities":{"safety":5,"walkability":5,"familyFriendly":5,"nightlife":5}}`,
		"out of range":       `{"name":"A","email":"a","password":"p","householdSize":40,"children":0,"schoolNeeds":[],"income":75000,"education":"","priorities":{"safety":5,"walkability":5,"familyFriendly":5,"nightlife":5,"quiet":5}}`,
		"null needs":         `{"name":"A","email":"a","password":"p","householdSize":1,"children":0,"schoolNeeds":null,"income":75000,"education":"","priorities":{"safety":5,"walkability":5,"familyFriendly":5,"nightlife":5,"quiet":5}}`,
		"array":              `[1,2,3]`,
	}
	for name, raw := range cases {
		name, raw := name, raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			store := memory.NewKVStore()
			require.NoError(t, store.Set(ctx, ProfileKey("dev-1"), []byte(raw)))

			_, err := NewProfileStorage(store).Load(ctx, "dev-1")
			assert.ErrorIs(t, err, ErrCorruptProfile)
		})
	}
}

func TestProfileStorage_SaveRejectsBadShape(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewKVStore()

	p := completeProfile()
	p.Income = 12345
	err := NewProfileStorage(store).Save(ctx, "dev-1", p)
	require.ErrorIs(t, err, entity.ErrInvalidProfile)
	assert.Equal(t, 0, store.Len())
}

func TestProfileStorage_Clear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storage := NewProfileStorage(memory.NewKVStore())
	require.NoError(t, storage.Save(ctx, "dev-1", completeProfile()))
	require.NoError(t, storage.Clear(ctx, "dev-1"))

	_, err := storage.Load(ctx, "dev-1")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

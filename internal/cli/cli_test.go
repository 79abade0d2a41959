package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/mediator"
)

type fakeLoader struct {
	result mediator.LoadResult
	err    error
	loads  []mediator.LoadType
}

func (l *fakeLoader) Endpoint() string { return "/api/shops/" }

func (l *fakeLoader) Load(ctx context.Context, loadType mediator.LoadType) (mediator.LoadResult, error) {
	l.loads = append(l.loads, loadType)
	return l.result, l.err
}

type fakeEntities struct {
	shops   *fakeLoader
	all     map[string]mediator.LoadResult
	allErr  error
	counts  map[string]int64
	cursors []entities.RemoteKey
}

func (f *fakeEntities) Loader(name string) (mediator.Loader, bool) {
	if name != "shops" {
		return nil, false
	}
	return f.shops, true
}

func (f *fakeEntities) LoadAll(ctx context.Context, loadType mediator.LoadType) (map[string]mediator.LoadResult, error) {
	return f.all, f.allErr
}

func (f *fakeEntities) Count(name string) (int64, error) {
	return f.counts[name], nil
}

func (f *fakeEntities) Cursors() ([]entities.RemoteKey, error) {
	return f.cursors, nil
}

func TestSyncCommand_ParseFlags(t *testing.T) {
	cmd := NewSyncCommand()
	require.NoError(t, cmd.ParseFlags(nil))
	assert.Equal(t, "all", cmd.Entity)
	assert.Equal(t, mediator.Refresh, cmd.LoadType)

	cmd = NewSyncCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-entity", "shops", "-type", "prepend"}))
	assert.Equal(t, "shops", cmd.Entity)
	assert.Equal(t, mediator.Prepend, cmd.LoadType)

	assert.Error(t, NewSyncCommand().ParseFlags([]string{"-type", "sideways"}))
}

func TestSyncCommand_RunOne(t *testing.T) {
	var out bytes.Buffer
	fake := &fakeEntities{shops: &fakeLoader{result: mediator.EndOfPagination()}, counts: map[string]int64{"shops": 12}}
	cmd := &SyncCommand{Entity: "shops", LoadType: mediator.Prepend, out: &out}

	require.NoError(t, cmd.run(context.Background(), fake))

	assert.Equal(t, []mediator.LoadType{mediator.Prepend}, fake.shops.loads)
	assert.Contains(t, out.String(), "shops")
	assert.Contains(t, out.String(), "12 rows (end of pagination)")
}

func TestSyncCommand_RunAll(t *testing.T) {
	var out bytes.Buffer
	fake := &fakeEntities{
		all:    map[string]mediator.LoadResult{"shops": {}, "products": {}},
		counts: map[string]int64{"shops": 3, "products": 60},
	}
	cmd := &SyncCommand{Entity: "all", LoadType: mediator.Refresh, out: &out}

	require.NoError(t, cmd.run(context.Background(), fake))

	assert.Contains(t, out.String(), "refresh results")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("products")), bytes.Index(out.Bytes(), []byte("shops")))
}

func TestSyncCommand_Errors(t *testing.T) {
	cmd := &SyncCommand{Entity: "boats", LoadType: mediator.Refresh, out: &bytes.Buffer{}}
	assert.ErrorContains(t, cmd.run(context.Background(), &fakeEntities{}), `unknown entity "boats"`)

	boom := errors.New("boom")
	cmd = &SyncCommand{Entity: "all", LoadType: mediator.Refresh, out: &bytes.Buffer{}}
	assert.ErrorIs(t, cmd.run(context.Background(), &fakeEntities{allErr: boom}), boom)
}

func TestCursorsCommand_Run(t *testing.T) {
	var out bytes.Buffer
	next := 4
	cmd := &CursorsCommand{out: &out}

	require.NoError(t, cmd.Run(&fakeEntities{}))
	assert.Contains(t, out.String(), "No cursors stored")

	out.Reset()
	require.NoError(t, cmd.Run(&fakeEntities{cursors: []entities.RemoteKey{
		{Endpoint: "/api/shops/", NextPage: &next, TotalItems: 30, UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}))
	assert.Contains(t, out.String(), "ENDPOINT")
	assert.Contains(t, out.String(), "/api/shops/")
	assert.Contains(t, out.String(), "4")
	assert.Contains(t, out.String(), "2026-01-01T00:00:00Z")
}

type fakeSettings map[string]string

func (f fakeSettings) SetSetting(key, value string) error {
	f[key] = value
	return nil
}

func (f fakeSettings) DeleteSetting(key string) error {
	delete(f, key)
	return nil
}

func TestTokenCommand(t *testing.T) {
	assert.Error(t, NewTokenCommand().ParseFlags(nil))
	assert.Error(t, NewTokenCommand().ParseFlags([]string{"-token", "x", "-clear"}))

	settings := fakeSettings{}
	cmd := NewTokenCommand()
	cmd.out = &bytes.Buffer{}
	require.NoError(t, cmd.ParseFlags([]string{"-token", "secret"}))
	require.NoError(t, cmd.Run(settings))
	assert.Equal(t, "secret", settings[entities.SettingKeyAPIToken])

	cmd = NewTokenCommand()
	cmd.out = &bytes.Buffer{}
	require.NoError(t, cmd.ParseFlags([]string{"-clear"}))
	require.NoError(t, cmd.Run(settings))
	assert.NotContains(t, settings, entities.SettingKeyAPIToken)
}

type fakeBrowser struct {
	rows  map[string]any
	err   error
	pages []int
}

func (f *fakeBrowser) Browse(ctx context.Context, name string, pages int) (any, error) {
	f.pages = append(f.pages, pages)
	if f.err != nil {
		return nil, f.err
	}
	rows, ok := f.rows[name]
	if !ok {
		return nil, errors.New("unknown entity")
	}
	return rows, nil
}

func TestBrowseCommand_ParseFlags(t *testing.T) {
	cmd := NewBrowseCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-entity", "products", "-pages", "3"}))
	assert.Equal(t, "products", cmd.Entity)
	assert.Equal(t, 3, cmd.Pages)

	assert.Error(t, NewBrowseCommand().ParseFlags(nil), "entity is required")
	assert.Error(t, NewBrowseCommand().ParseFlags([]string{"-entity", "shops", "-pages", "-1"}))
}

func TestBrowseCommand_Run(t *testing.T) {
	var out bytes.Buffer
	browser := &fakeBrowser{rows: map[string]any{
		"shops": []entities.Shop{{ID: 2, Name: "Bakery"}, {ID: 1, Name: "Corner"}},
	}}
	cmd := &BrowseCommand{Entity: "shops", Pages: 2, out: &out}

	require.NoError(t, cmd.run(context.Background(), browser))
	assert.Equal(t, []int{2}, browser.pages)
	assert.Contains(t, out.String(), "shops: 2 rows")
	assert.Contains(t, out.String(), `"name": "Bakery"`)
}

func TestBrowseCommand_RunError(t *testing.T) {
	var out bytes.Buffer
	cmd := &BrowseCommand{Entity: "shops", Pages: 1, out: &out}

	err := cmd.run(context.Background(), &fakeBrowser{err: errors.New("remote down")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browse shops")
	assert.Empty(t, out.String())
}

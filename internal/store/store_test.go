package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func expectCatalogQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "parts" ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "status", "category_code"}).
			AddRow("P-BOLT", "Bolt", "RAW_MATERIAL", "ACTIVE", "").
			AddRow("P-LEG", "Leg", "COMPONENT", "", ""))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "assemblies" ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "status", "category_code"}).
			AddRow("KIT", "Leg kit", "KIT", "ACTIVE", "LEGS").
			AddRow("MODEL", "Model", "SYSTEM", "ACTIVE", "SINK_MODEL").
			AddRow("SUB", "Hardware", "SIMPLE", "ACTIVE", ""))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "assembly_components" ORDER BY assembly_id,position`)).
		WillReturnRows(sqlmock.NewRows([]string{"assembly_id", "position", "part_id", "child_assembly_id", "quantity", "notes"}).
			AddRow("KIT", 0, "P-LEG", nil, 4, "").
			AddRow("KIT", 1, nil, "SUB", 1, "").
			AddRow("SUB", 0, "P-BOLT", nil, 8, "M8"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "model_compatibilities" ORDER BY assembly_id,model_id`)).
		WillReturnRows(sqlmock.NewRows([]string{"assembly_id", "model_id"}).AddRow("KIT", "MODEL"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sink_models" ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "min_width", "max_width", "min_length", "max_length", "max_basins"}).
			AddRow("MODEL", "Model", 24, 96, 24, 96, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "basin_types" ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "kind"}).AddRow("SUB", "Drain", "E_DRAIN"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pegboard_types" ORDER BY code`)).
		WillReturnRows(sqlmock.NewRows([]string{"code", "name"}).AddRow("PERF", "Perforated"))
}

func TestGormStore_LoadCatalog(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)
	expectCatalogQueries(mock)

	def, err := store.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, def.Assemblies, 3)
	kit := def.Assemblies[0]
	assert.Equal(t, []catalog.ComponentDef{
		{PartID: "P-LEG", Quantity: 4},
		{AssemblyID: "SUB", Quantity: 1},
	}, kit.Components)
	assert.Equal(t, []string{"MODEL"}, kit.CompatibleModels)
	assert.Empty(t, def.Assemblies[1].Components)

	snap, err := catalog.New(def)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Stats().Components)
	sink, err := snap.Model("MODEL")
	require.NoError(t, err)
	assert.Equal(t, 96.0, sink.MaxLength)
}

func TestGormStore_LoadCatalogErrors(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "parts"`)).WillReturnError(errors.New("connection reset"))

	_, err := store.LoadCatalog(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load parts")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ImportCatalog(t *testing.T) {
	def := &catalog.Definition{
		Parts:      []catalog.Part{{ID: "P-LEG", Name: "Leg", Type: catalog.PartTypeComponent}},
		Assemblies: []catalog.AssemblyDef{{ID: "KIT", Name: "Leg kit", Type: catalog.AssemblyTypeKit}},
	}

	testCases := []struct {
		name             string
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      string
	}{
		{
			name: "Part upsert fails, should roll back",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "parts"`)).
					WithArgs("P-LEG", "Leg", "COMPONENT", "", "", "", "", false, false, Any{}, Any{}).
					WillReturnError(errors.New("deadlock"))
				mock.ExpectRollback()
			},
			expectedErr: "batch upsert parts failed",
		},
		{
			name: "Assembly upsert fails, should roll back",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "parts"`)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "assemblies"`)).
					WillReturnError(errors.New("deadlock"))
				mock.ExpectRollback()
			},
			expectedErr: "batch upsert assemblies failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			store := NewGormStore(gormDB)
			tc.mockExpectations(mock)

			_, err := store.ImportCatalog(context.Background(), def)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_CatalogStats(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	tables := []string{"parts", "assemblies", "assembly_components", "sink_models", "basin_types", "pegboard_types"}
	for i, table := range tables {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "` + table + `"`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(i + 1))
	}

	counts, err := store.CatalogStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{Parts: 1, Assemblies: 2, Components: 3, Models: 4, BasinTypes: 5, PegboardTypes: 6}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SQLiteRoundTrip(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open("file:store_roundtrip?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, testDB.AutoMigrate(model.All()...))

	def, err := catalog.LoadFile("../../data/catalog.yaml")
	require.NoError(t, err)
	want, err := catalog.New(def)
	require.NoError(t, err)

	store := NewGormStore(testDB)
	ctx := context.Background()
	_, err = store.ImportCatalog(ctx, def)
	require.NoError(t, err)
	counts, err := store.ImportCatalog(ctx, def)
	require.NoError(t, err, "import is idempotent")

	stats, err := store.CatalogStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, counts, stats)

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	got, err := catalog.New(loaded)
	require.NoError(t, err)

	w, g := want.Stats(), got.Stats()
	w.Version, g.Version = "", ""
	assert.Equal(t, w, g)

	wantComps, err := want.Components("T2-DL27-KIT")
	require.NoError(t, err)
	gotComps, err := got.Components("T2-DL27-KIT")
	require.NoError(t, err)
	assert.Equal(t, wantComps, gotComps)

	legs, err := got.Assembly("T2-DL27-KIT")
	require.NoError(t, err)
	assert.True(t, legs.CompatibleWith("T2-DL27"))
	assert.False(t, legs.CompatibleWith("T2-LC1"))
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

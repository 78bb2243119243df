package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/internal/herbs"
	"github.com/herblink/herblink-backend/pkg/enums"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
)

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	herbsTable := `
CREATE TABLE IF NOT EXISTS herbs (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  chinese_name TEXT,
  description TEXT,
  category TEXT,
  unit TEXT NOT NULL DEFAULT 'gram',
  created_at DATETIME,
  updated_at DATETIME
);`
	inventoryTable := `
CREATE TABLE IF NOT EXISTS supplier_inventory (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  herb_id TEXT NOT NULL,
  quantity_available NUMERIC NOT NULL DEFAULT 0,
  price_per_gram NUMERIC NOT NULL DEFAULT 0,
  quality_grade TEXT NOT NULL DEFAULT 'A',
  expiry_date DATETIME,
  updated_at DATETIME,
  UNIQUE (supplier_id, herb_id)
);`
	require.NoError(t, db.Exec(herbsTable).Error)
	require.NoError(t, db.Exec(inventoryTable).Error)
	return db
}

func newInventoryService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	herbSvc, err := herbs.NewService(herbs.NewRepository(db))
	require.NoError(t, err)
	svc, err := NewService(NewRepository(db), herbSvc, sqliteTxRunner{db: db})
	require.NoError(t, err)
	return svc
}

func TestUpsertIsIdempotentPerSupplierHerb(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	supplierID := uuid.New()
	ctx := context.Background()

	first, err := svc.Upsert(ctx, UpsertInput{
		SupplierID:        supplierID,
		HerbName:          "Ginseng",
		QuantityAvailable: decimal.NewFromInt(100),
		PricePerGram:      decimal.NewFromFloat(1.5),
		QualityGrade:      enums.QualityGradeA,
	})
	require.NoError(t, err)

	second, err := svc.Upsert(ctx, UpsertInput{
		SupplierID:        supplierID,
		HerbName:          "Ginseng",
		QuantityAvailable: decimal.NewFromInt(250),
		PricePerGram:      decimal.NewFromFloat(1.2),
		QualityGrade:      enums.QualityGradeB,
	})
	require.NoError(t, err)

	assert.Equal(t, first.HerbID, second.HerbID)
	assert.True(t, second.QuantityAvailable.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, enums.QualityGradeB, second.QualityGrade)

	rows, err := svc.List(ctx, supplierID)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "upsert must not duplicate the row")
}

func TestUpsertValidation(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	supplierID := uuid.New()
	ctx := context.Background()

	cases := []struct {
		name  string
		input UpsertInput
	}{
		{"negative quantity", UpsertInput{SupplierID: supplierID, HerbName: "Ginseng", QuantityAvailable: decimal.NewFromInt(-1), PricePerGram: decimal.NewFromInt(1)}},
		{"negative price", UpsertInput{SupplierID: supplierID, HerbName: "Ginseng", QuantityAvailable: decimal.NewFromInt(1), PricePerGram: decimal.NewFromInt(-1)}},
		{"unknown grade", UpsertInput{SupplierID: supplierID, HerbName: "Ginseng", QuantityAvailable: decimal.NewFromInt(1), PricePerGram: decimal.NewFromInt(1), QualityGrade: enums.QualityGrade("D")}},
		{"blank herb", UpsertInput{SupplierID: supplierID, HerbName: "  ", QuantityAvailable: decimal.NewFromInt(1), PricePerGram: decimal.NewFromInt(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	db := setupInventoryTestDB(t)
	svc := newInventoryService(t, db)
	owner := uuid.New()
	ctx := context.Background()

	row, err := svc.Upsert(ctx, UpsertInput{
		SupplierID:        owner,
		HerbName:          "Ginseng",
		QuantityAvailable: decimal.NewFromInt(100),
		PricePerGram:      decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), row.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	require.NoError(t, svc.Delete(ctx, owner, row.ID))
	rows, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

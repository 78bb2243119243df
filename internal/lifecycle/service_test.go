package lifecycle

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/herblink/herblink-backend/internal/inventory"
	"github.com/herblink/herblink-backend/internal/matching"
	"github.com/herblink/herblink-backend/internal/orders"
	"github.com/herblink/herblink-backend/internal/prescriptions"
	"github.com/herblink/herblink-backend/internal/users"
	"github.com/herblink/herblink-backend/pkg/db/models"
	"github.com/herblink/herblink-backend/pkg/enums"
	pkgerrors "github.com/herblink/herblink-backend/pkg/errors"
)

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupLifecycleTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  license_number TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS herbs (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  chinese_name TEXT,
  description TEXT,
  category TEXT,
  unit TEXT NOT NULL DEFAULT 'gram',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS prescriptions (
  id TEXT PRIMARY KEY,
  practitioner_id TEXT NOT NULL,
  patient_name TEXT NOT NULL,
  patient_phone TEXT,
  patient_address TEXT,
  patient_dob DATETIME,
  symptoms TEXT,
  diagnosis TEXT,
  treatment_days INTEGER NOT NULL,
  doses_per_day INTEGER NOT NULL DEFAULT 2,
  status TEXT NOT NULL DEFAULT 'pending',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS prescription_items (
  id TEXT PRIMARY KEY,
  prescription_id TEXT NOT NULL,
  herb_id TEXT NOT NULL,
  quantity_per_dose NUMERIC NOT NULL,
  total_quantity NUMERIC NOT NULL,
  notes TEXT
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  prescription_id TEXT NOT NULL UNIQUE,
  supplier_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'accepted',
  estimated_completion DATETIME,
  actual_completion DATETIME,
  total_amount NUMERIC NOT NULL DEFAULT 0,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, schema := range schemas {
		require.NoError(t, db.Exec(schema).Error)
	}
	return db
}

func newLifecycleService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		orders.NewRepository(db),
		prescriptions.NewRepository(db),
		users.NewRepository(db),
		inventory.NewRepository(db),
		sqliteTxRunner{db: db},
		nil,
	)
	require.NoError(t, err)
	return svc
}

type fixture struct {
	practitionerID uuid.UUID
	supplierID     uuid.UUID
	herbID         uuid.UUID
	prescriptionID uuid.UUID
}

// seedScenario creates a practitioner, a supplier stocking 140g of ginseng
// at $1.00/g, and a pending prescription requiring exactly 140g.
func seedScenario(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{
		practitionerID: uuid.New(),
		supplierID:     uuid.New(),
		herbID:         uuid.New(),
		prescriptionID: uuid.New(),
	}

	require.NoError(t, db.Create(&models.User{
		ID: f.practitionerID, Email: f.practitionerID.String() + "@clinic.test",
		PasswordHash: "x", Name: "Dr. Chen", Role: enums.UserRolePractitioner,
	}).Error)
	require.NoError(t, db.Create(&models.User{
		ID: f.supplierID, Email: f.supplierID.String() + "@herbs.test",
		PasswordHash: "x", Name: "Golden Root Co", Role: enums.UserRoleSupplier,
	}).Error)
	require.NoError(t, db.Create(&models.Herb{
		ID: f.herbID, Name: "Ginseng", Unit: "gram",
	}).Error)
	require.NoError(t, db.Create(&models.Prescription{
		ID:             f.prescriptionID,
		PractitionerID: f.practitionerID,
		PatientName:    "Li Wei",
		TreatmentDays:  7,
		DosesPerDay:    2,
		Status:         enums.PrescriptionStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.PrescriptionItem{
		ID:              uuid.New(),
		PrescriptionID:  f.prescriptionID,
		HerbID:          f.herbID,
		QuantityPerDose: decimal.NewFromInt(10),
		TotalQuantity:   decimal.NewFromInt(140),
	}).Error)
	require.NoError(t, db.Create(&models.SupplierInventory{
		ID:                uuid.New(),
		SupplierID:        f.supplierID,
		HerbID:            f.herbID,
		QuantityAvailable: decimal.NewFromInt(140),
		PricePerGram:      decimal.NewFromInt(1),
		QualityGrade:      enums.QualityGradeA,
	}).Error)
	return f
}

func prescriptionStatus(t *testing.T, db *gorm.DB, id uuid.UUID) enums.PrescriptionStatus {
	t.Helper()
	var p models.Prescription
	require.NoError(t, db.Where("id = ?", id).First(&p).Error)
	return p.Status
}

func orderRow(t *testing.T, db *gorm.DB, prescriptionID uuid.UUID) *models.Order {
	t.Helper()
	var o models.Order
	err := db.Where("prescription_id = ?", prescriptionID).First(&o).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	require.NoError(t, err)
	return &o
}

// assertCoupled checks the invariant that the stored pair always matches the
// coupling table, and that order-less prescriptions are pending.
func assertCoupled(t *testing.T, db *gorm.DB, prescriptionID uuid.UUID) {
	t.Helper()
	status := prescriptionStatus(t, db, prescriptionID)
	order := orderRow(t, db, prescriptionID)
	if order == nil {
		assert.Equal(t, enums.PrescriptionStatusPending, status)
		return
	}
	want, ok := PrescriptionStatusFor(order.Status)
	require.True(t, ok)
	assert.Equal(t, want, status)
}

func errorCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	return typed.Code()
}

func TestFullWorkflowSelectToCompletion(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	res, err := svc.SelectSupplier(ctx, SelectSupplierInput{
		PractitionerID: f.practitionerID,
		PrescriptionID: f.prescriptionID,
		SupplierID:     f.supplierID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPendingConfirmation, res.Order.Status)
	assert.NotNil(t, res.Order.EstimatedCompletion)
	// 140g at $1.00/g
	assert.Equal(t, "140.00", res.Order.TotalAmount.StringFixed(2))
	assertCoupled(t, db, f.prescriptionID)

	orderID := res.Order.ID
	res, err = svc.AcceptOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: orderID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAccepted, res.Order.Status)
	assert.Equal(t, enums.PrescriptionStatusAssigned, prescriptionStatus(t, db, f.prescriptionID))

	expected := []enums.OrderStatus{
		enums.OrderStatusPreparing,
		enums.OrderStatusPacked,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
	}
	for _, want := range expected {
		res, err = svc.AdvanceOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: orderID})
		require.NoError(t, err)
		assert.Equal(t, want, res.Order.Status)
		assertCoupled(t, db, f.prescriptionID)
	}
	assert.Equal(t, enums.PrescriptionStatusInProgress, prescriptionStatus(t, db, f.prescriptionID))

	stored := orderRow(t, db, f.prescriptionID)
	require.NotNil(t, stored.ActualCompletion)

	res, err = svc.CompleteOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: orderID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, res.Order.Status)
	assert.Equal(t, enums.PrescriptionStatusCompleted, prescriptionStatus(t, db, f.prescriptionID))

	// completed orders never advance again
	_, err = svc.AdvanceOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: orderID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errorCode(t, err))
}

func TestClaimPrescription(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	res, err := svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAccepted, res.Order.Status)
	assert.Equal(t, enums.PrescriptionStatusAssigned, prescriptionStatus(t, db, f.prescriptionID))
	assertCoupled(t, db, f.prescriptionID)

	// a second claim loses cleanly
	_, err = svc.ClaimPrescription(ctx, ClaimInput{SupplierID: uuid.New(), PrescriptionID: f.prescriptionID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errorCode(t, err))
}

func TestClaimRequiresSufficientInventory(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	// drain below the required 140g; equality qualifies, less does not
	require.NoError(t, db.Exec(
		`UPDATE supplier_inventory SET quantity_available = 139.99 WHERE supplier_id = ?`,
		f.supplierID.String(),
	).Error)

	_, err := svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errorCode(t, err))
	assert.Equal(t, enums.PrescriptionStatusPending, prescriptionStatus(t, db, f.prescriptionID))
	assert.Nil(t, orderRow(t, db, f.prescriptionID))
}

func TestRejectReturnsPrescriptionToPool(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	res, err := svc.SelectSupplier(ctx, SelectSupplierInput{
		PractitionerID: f.practitionerID,
		PrescriptionID: f.prescriptionID,
		SupplierID:     f.supplierID,
	})
	require.NoError(t, err)

	rejected, err := svc.RejectOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: res.Order.ID})
	require.NoError(t, err)
	assert.Nil(t, rejected.Order)
	assert.Equal(t, enums.PrescriptionStatusPending, prescriptionStatus(t, db, f.prescriptionID))
	assert.Nil(t, orderRow(t, db, f.prescriptionID))
	assertCoupled(t, db, f.prescriptionID)

	// pool release is repeatable: the same supplier can be selected again
	again, err := svc.SelectSupplier(ctx, SelectSupplierInput{
		PractitionerID: f.practitionerID,
		PrescriptionID: f.prescriptionID,
		SupplierID:     f.supplierID,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPendingConfirmation, again.Order.Status)
}

func TestRejectionRemovesDrainedSupplierFromRematch(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	matcher, err := matching.NewService(prescriptions.NewRepository(db), inventory.NewRepository(db), nil)
	require.NoError(t, err)

	// a second supplier also stocks enough ginseng
	otherSupplierID := uuid.New()
	require.NoError(t, db.Create(&models.User{
		ID: otherSupplierID, Email: otherSupplierID.String() + "@herbs.test",
		PasswordHash: "x", Name: "Mountain Leaf Ltd", Role: enums.UserRoleSupplier,
	}).Error)
	require.NoError(t, db.Create(&models.SupplierInventory{
		ID: uuid.New(), SupplierID: otherSupplierID, HerbID: f.herbID,
		QuantityAvailable: decimal.NewFromInt(200), PricePerGram: decimal.NewFromInt(2),
		QualityGrade: enums.QualityGradeA,
	}).Error)

	selected, err := svc.SelectSupplier(ctx, SelectSupplierInput{
		PractitionerID: f.practitionerID, PrescriptionID: f.prescriptionID, SupplierID: f.supplierID,
	})
	require.NoError(t, err)

	_, err = svc.RejectOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: selected.Order.ID})
	require.NoError(t, err)
	assert.Equal(t, enums.PrescriptionStatusPending, prescriptionStatus(t, db, f.prescriptionID))

	// the first supplier's stock got sold in the meantime
	require.NoError(t, db.Exec(
		`UPDATE supplier_inventory SET quantity_available = 0 WHERE supplier_id = ?`,
		f.supplierID.String(),
	).Error)

	matches, err := matcher.FindSuppliers(ctx, f.practitionerID, f.prescriptionID, matching.SortByName)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, otherSupplierID, matches[0].SupplierID)
	assert.Equal(t, "280.00", matches[0].EstimatedTotal.StringFixed(2))

	// a fresh claim by the drained supplier fails the stock check too
	_, err = svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errorCode(t, err))
}

func TestCancellationDenialCycle(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	claimed, err := svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
	require.NoError(t, err)
	orderID := claimed.Order.ID

	// blank reason is rejected up front
	_, err = svc.RequestCancellation(ctx, CancellationRequestInput{
		SupplierID: f.supplierID, OrderID: orderID, Reason: "   ",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errorCode(t, err))

	res, err := svc.RequestCancellation(ctx, CancellationRequestInput{
		SupplierID: f.supplierID, OrderID: orderID, Reason: "logistics issue",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancellationRequested, res.Order.Status)
	assert.Equal(t, enums.PrescriptionStatusCancellationPending, prescriptionStatus(t, db, f.prescriptionID))
	require.NotNil(t, res.Order.Notes)
	assert.Contains(t, *res.Order.Notes, "CANCELLATION REQUESTED: logistics issue")

	_, err = svc.DenyCancellation(ctx, CancellationDecisionInput{PractitionerID: f.practitionerID, OrderID: orderID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, errorCode(t, err))

	denied, err := svc.DenyCancellation(ctx, CancellationDecisionInput{
		PractitionerID: f.practitionerID, OrderID: orderID, Reason: "please proceed",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAccepted, denied.Order.Status)
	assert.Equal(t, enums.PrescriptionStatusAssigned, prescriptionStatus(t, db, f.prescriptionID))
	require.NotNil(t, denied.Order.Notes)
	assert.Contains(t, *denied.Order.Notes, "CANCELLATION DENIED: please proceed")
	assertCoupled(t, db, f.prescriptionID)
}

func TestCancellationRolesAreNotInterchangeable(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	claimed, err := svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
	require.NoError(t, err)
	orderID := claimed.Order.ID

	// the practitioner's id does not own the order on the supplier path
	_, err = svc.RequestCancellation(ctx, CancellationRequestInput{
		SupplierID: f.practitionerID, OrderID: orderID, Reason: "not my call",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))

	_, err = svc.RequestCancellation(ctx, CancellationRequestInput{
		SupplierID: f.supplierID, OrderID: orderID, Reason: "logistics issue",
	})
	require.NoError(t, err)

	// the requesting supplier cannot answer its own request
	_, err = svc.ApproveCancellation(ctx, CancellationDecisionInput{
		PractitionerID: f.supplierID, OrderID: orderID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))
	assert.Equal(t, enums.PrescriptionStatusCancellationPending, prescriptionStatus(t, db, f.prescriptionID))

	_, err = svc.DenyCancellation(ctx, CancellationDecisionInput{
		PractitionerID: f.supplierID, OrderID: orderID, Reason: "still mine",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))

	approved, err := svc.ApproveCancellation(ctx, CancellationDecisionInput{
		PractitionerID: f.practitionerID, OrderID: orderID,
	})
	require.NoError(t, err)
	assert.Nil(t, approved.Order)
	assert.Equal(t, enums.PrescriptionStatusPending, prescriptionStatus(t, db, f.prescriptionID))
}

func TestApproveCancellationReleasesPrescription(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	claimed, err := svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
	require.NoError(t, err)

	_, err = svc.RequestCancellation(ctx, CancellationRequestInput{
		SupplierID: f.supplierID, OrderID: claimed.Order.ID, Reason: "cannot fulfill in time",
	})
	require.NoError(t, err)

	approved, err := svc.ApproveCancellation(ctx, CancellationDecisionInput{
		PractitionerID: f.practitionerID, OrderID: claimed.Order.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, approved.Order)
	assert.Equal(t, enums.PrescriptionStatusPending, prescriptionStatus(t, db, f.prescriptionID))
	assert.Nil(t, orderRow(t, db, f.prescriptionID))
}

func TestRequestCancellationOnlyWhileAcceptedOrPreparing(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	claimed, err := svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
	require.NoError(t, err)

	// advance to packed
	for range 2 {
		_, err = svc.AdvanceOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: claimed.Order.ID})
		require.NoError(t, err)
	}

	_, err = svc.RequestCancellation(ctx, CancellationRequestInput{
		SupplierID: f.supplierID, OrderID: claimed.Order.ID, Reason: "too late",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errorCode(t, err))
}

func TestRevertFromDeliveredClearsActualCompletion(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	claimed, err := svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
	require.NoError(t, err)
	orderID := claimed.Order.ID

	for range 4 {
		_, err = svc.AdvanceOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: orderID})
		require.NoError(t, err)
	}
	require.NotNil(t, orderRow(t, db, f.prescriptionID).ActualCompletion)

	res, err := svc.RevertOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: orderID})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, res.Order.Status)
	assert.Nil(t, orderRow(t, db, f.prescriptionID).ActualCompletion)
	assertCoupled(t, db, f.prescriptionID)

	// reverting all the way to accepted restores the assigned pairing
	for range 3 {
		res, err = svc.RevertOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: orderID})
		require.NoError(t, err)
	}
	assert.Equal(t, enums.OrderStatusAccepted, res.Order.Status)
	assert.Equal(t, enums.PrescriptionStatusAssigned, prescriptionStatus(t, db, f.prescriptionID))

	_, err = svc.RevertOrder(ctx, OrderActionInput{SupplierID: f.supplierID, OrderID: orderID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, errorCode(t, err))
}

func TestOwnershipFailuresSurfaceAsNotFound(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	f := seedScenario(t, db)
	ctx := context.Background()

	claimed, err := svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
	require.NoError(t, err)

	_, err = svc.AdvanceOrder(ctx, OrderActionInput{SupplierID: uuid.New(), OrderID: claimed.Order.ID})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))

	_, err = svc.RequestCancellation(ctx, CancellationRequestInput{
		SupplierID: uuid.New(), OrderID: claimed.Order.ID, Reason: "not mine",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))

	_, err = svc.RequestCancellation(ctx, CancellationRequestInput{
		SupplierID: f.supplierID, OrderID: claimed.Order.ID, Reason: "logistics issue",
	})
	require.NoError(t, err)

	_, err = svc.ApproveCancellation(ctx, CancellationDecisionInput{
		PractitionerID: uuid.New(), OrderID: claimed.Order.ID,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, errorCode(t, err))
}

func TestCancelPrescription(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := newLifecycleService(t, db)
	ctx := context.Background()

	t.Run("pending deletes outright", func(t *testing.T) {
		f := seedScenario(t, db)
		err := svc.CancelPrescription(ctx, CancelPrescriptionInput{
			PractitionerID: f.practitionerID, PrescriptionID: f.prescriptionID,
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Prescription{}).Where("id = ?", f.prescriptionID).Count(&count).Error)
		assert.Zero(t, count)
		require.NoError(t, db.Model(&models.PrescriptionItem{}).Where("prescription_id = ?", f.prescriptionID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("awaiting confirmation deletes the order too", func(t *testing.T) {
		f := seedScenario(t, db)
		_, err := svc.SelectSupplier(ctx, SelectSupplierInput{
			PractitionerID: f.practitionerID, PrescriptionID: f.prescriptionID, SupplierID: f.supplierID,
		})
		require.NoError(t, err)

		err = svc.CancelPrescription(ctx, CancelPrescriptionInput{
			PractitionerID: f.practitionerID, PrescriptionID: f.prescriptionID,
		})
		require.NoError(t, err)
		assert.Nil(t, orderRow(t, db, f.prescriptionID))
	})

	t.Run("assigned is too late", func(t *testing.T) {
		f := seedScenario(t, db)
		_, err := svc.ClaimPrescription(ctx, ClaimInput{SupplierID: f.supplierID, PrescriptionID: f.prescriptionID})
		require.NoError(t, err)

		err = svc.CancelPrescription(ctx, CancelPrescriptionInput{
			PractitionerID: f.practitionerID, PrescriptionID: f.prescriptionID,
		})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeStateConflict, errorCode(t, err))
	})
}

package usage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"automatehub_backend/internal/model"
)

func openGateDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gate.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.UserSubscription{}, &model.UsageLog{}))
	return db
}

func seedSubscription(t *testing.T, db *gorm.DB, sub model.UserSubscription) {
	t.Helper()
	require.NoError(t, db.Create(&sub).Error)
}

func TestStatusFromRow(t *testing.T) {
	tests := []struct {
		name          string
		sub           *model.UserSubscription
		wantCanCreate bool
		wantRemaining int
		wantReason    string
	}{
		{
			name:       "no subscription row",
			sub:        nil,
			wantReason: ReasonNoSubscription,
		},
		{
			name:       "canceled subscription",
			sub:        &model.UserSubscription{Status: "canceled", AutomationLimit: 5, AutomationsUsed: 1},
			wantReason: ReasonNoSubscription,
		},
		{
			name:       "past due subscription",
			sub:        &model.UserSubscription{Status: "past_due", AutomationLimit: 5, AutomationsUsed: 1},
			wantReason: ReasonNoSubscription,
		},
		{
			name:          "one unit remaining",
			sub:           &model.UserSubscription{Status: "active", AutomationLimit: 5, AutomationsUsed: 4},
			wantCanCreate: true,
			wantRemaining: 1,
		},
		{
			name:       "at the limit",
			sub:        &model.UserSubscription{Status: "active", AutomationLimit: 5, AutomationsUsed: 5},
			wantReason: ReasonLimitReached,
		},
		{
			name:       "over the limit after a downgrade",
			sub:        &model.UserSubscription{Status: "active", AutomationLimit: 3, AutomationsUsed: 5},
			wantReason: ReasonLimitReached,
		},
		{
			name:          "fresh grant",
			sub:           &model.UserSubscription{Status: "active", AutomationLimit: 10, AutomationsUsed: 0},
			wantCanCreate: true,
			wantRemaining: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := statusFromRow(tt.sub)

			assert.Equal(t, tt.wantCanCreate, status.CanCreate)
			assert.Equal(t, tt.wantRemaining, status.Remaining)
			assert.Equal(t, tt.wantReason, status.Reason)
		})
	}
}

func TestStatusFromRowNeverReportsNegativeRemaining(t *testing.T) {
	status := statusFromRow(&model.UserSubscription{Status: "active", AutomationLimit: 2, AutomationsUsed: 9})
	assert.Equal(t, 0, status.Remaining)
	assert.False(t, status.CanCreate)
}

// One unit left: the first increment consumes it, the second is refused and
// the counter stays exactly at the limit. The refusal must come out of the
// conditional UPDATE itself, not a prior read.
func TestIncrementConsumesLastUnitThenRefuses(t *testing.T) {
	db := openGateDB(t)
	seedSubscription(t, db, model.UserSubscription{
		UserID: 42, Status: "active", AutomationLimit: 5, AutomationsUsed: 4,
	})

	status, err := Increment(db, 42, "automation_created")
	require.NoError(t, err)
	assert.Equal(t, 5, status.Used)
	assert.Equal(t, 0, status.Remaining)
	assert.False(t, status.CanCreate)

	status, err = Increment(db, 42, "automation_created")
	require.ErrorIs(t, err, ErrLimitReached)
	assert.Equal(t, ReasonLimitReached, status.Reason)

	var row model.UserSubscription
	require.NoError(t, db.Where("user_id = ?", 42).First(&row).Error)
	assert.Equal(t, 5, row.AutomationsUsed, "a refused increment must not move the counter")
}

func TestIncrementWithoutSubscription(t *testing.T) {
	db := openGateDB(t)

	status, err := Increment(db, 7, "automation_created")
	require.ErrorIs(t, err, ErrNoSubscription)
	assert.Equal(t, ReasonNoSubscription, status.Reason)
}

func TestIncrementRefusesInactiveSubscription(t *testing.T) {
	db := openGateDB(t)
	seedSubscription(t, db, model.UserSubscription{
		UserID: 9, Status: "canceled", AutomationLimit: 5, AutomationsUsed: 1,
	})

	_, err := Increment(db, 9, "automation_created")
	require.ErrorIs(t, err, ErrNoSubscription)

	var row model.UserSubscription
	require.NoError(t, db.Where("user_id = ?", 9).First(&row).Error)
	assert.Equal(t, 1, row.AutomationsUsed)
}

func TestIncrementWritesAuditRow(t *testing.T) {
	db := openGateDB(t)
	seedSubscription(t, db, model.UserSubscription{
		UserID: 3, Status: "active", AutomationLimit: 2, AutomationsUsed: 0,
	})

	_, err := Increment(db, 3, "automation_created")
	require.NoError(t, err)

	var logs []model.UsageLog
	require.NoError(t, db.Where("user_id = ?", 3).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "automation_created", logs[0].Action)
}

func TestIncrementRefusalLeavesNoAuditRow(t *testing.T) {
	db := openGateDB(t)
	seedSubscription(t, db, model.UserSubscription{
		UserID: 4, Status: "active", AutomationLimit: 1, AutomationsUsed: 1,
	})

	_, err := Increment(db, 4, "automation_created")
	require.ErrorIs(t, err, ErrLimitReached)

	var count int64
	require.NoError(t, db.Model(&model.UsageLog{}).Where("user_id = ?", 4).Count(&count).Error)
	assert.Zero(t, count)
}

func TestResetZeroesCounter(t *testing.T) {
	db := openGateDB(t)
	seedSubscription(t, db, model.UserSubscription{
		UserID: 11, Status: "active", AutomationLimit: 5, AutomationsUsed: 5,
	})

	require.NoError(t, Reset(db, 11))

	status, err := Check(db, 11)
	require.NoError(t, err)
	assert.True(t, status.CanCreate)
	assert.Equal(t, 0, status.Used)
	assert.Equal(t, 5, status.Remaining)
}

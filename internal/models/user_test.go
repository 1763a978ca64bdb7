package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func TestUser_BeforeSave_SystemAccountInvariants(t *testing.T) {
	db := openUserTestDB(t)

	regType := RegTypeRedactor
	user := &User{
		Email:        "Admin@Example.com",
		PasswordHash: "x",
		UserType:     UserTypeSystem,
		RegType:      &regType,
		IsSuperuser:  false,
	}
	require.NoError(t, db.Create(user).Error)

	var stored User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, "admin@example.com", stored.Email)
	require.True(t, stored.IsSuperuser)
	require.Nil(t, stored.RegType)
	require.True(t, stored.IsStaff())
}

func TestUser_RolePredicates(t *testing.T) {
	redactor := RegTypeRedactor
	reader := RegTypeDefault

	u := User{UserType: UserTypeClient, RegType: &redactor}
	require.True(t, u.IsRedactor())
	require.False(t, u.IsStaff())
	require.False(t, u.IsDefault())

	u = User{UserType: UserTypeClient, RegType: &reader}
	require.True(t, u.IsDefault())
	require.False(t, u.IsRedactor())

	u = User{UserType: UserTypeSystem}
	require.True(t, u.IsStaff())
	require.False(t, u.IsRedactor())
	require.False(t, u.IsDefault())
}

func TestUser_EmailUnique(t *testing.T) {
	db := openUserTestDB(t)

	require.NoError(t, db.Create(&User{Email: "dup@example.com", PasswordHash: "x", UserType: UserTypeClient}).Error)
	err := db.Create(&User{Email: "dup@example.com", PasswordHash: "x", UserType: UserTypeClient}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

package dao

import (
	"context"

	"healthsync/healthsync/sources/psql/models"

	"gorm.io/gorm"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

func (dao *UserDAO) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).First(&user, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) CreateUser(ctx context.Context, user *models.User) error {
	return dao.DB.WithContext(ctx).Create(user).Error
}

// GetDoctorByID returns the user only if it exists and holds the doctor role.
func (dao *UserDAO) GetDoctorByID(ctx context.Context, id int) (*models.User, error) {
	var doctor models.User
	err := dao.DB.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleDoctor).
		First(&doctor).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

// ListAvailableDoctors returns available doctors ordered by name, optionally
// filtered by specialization substring.
func (dao *UserDAO) ListAvailableDoctors(ctx context.Context, specialization string) ([]models.User, error) {
	q := dao.DB.WithContext(ctx).
		Where("role = ? AND is_available = ?", models.RoleDoctor, true)
	if specialization != "" {
		q = q.Where("specialization LIKE ?", "%"+specialization+"%")
	}
	var doctors []models.User
	err := q.Order("last_name, first_name").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (dao *UserDAO) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := dao.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (dao *UserDAO) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	var n int64
	err := dao.DB.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

package repository

import (
	"gorm.io/gorm"

	"homequest/internal/model"
)

type PackageRepository interface {
	Create(pkg *model.ProblemPackage) error
	FindByIDWithProblems(id uint) (*model.ProblemPackage, error)
	CountProblems(packageID uint) (int64, error)
	WithTx(tx *gorm.DB) PackageRepository
}

type packageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) WithTx(tx *gorm.DB) PackageRepository {
	return &packageRepository{db: tx}
}

func (r *packageRepository) Create(pkg *model.ProblemPackage) error {
	// GORM creates the associated problems along with the package.
	return r.db.Create(pkg).Error
}

func (r *packageRepository) FindByIDWithProblems(id uint) (*model.ProblemPackage, error) {
	var pkg model.ProblemPackage
	err := r.db.Preload("Problems", func(db *gorm.DB) *gorm.DB {
		return db.Order("package_problems.position ASC")
	}).First(&pkg, id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &pkg, nil
}

func (r *packageRepository) CountProblems(packageID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.PackageProblem{}).Where("package_id = ?", packageID).Count(&count).Error
	return count, err
}

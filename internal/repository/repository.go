package repository

import (
	"gorm.io/gorm"
)

// idPair one (owner, child) id row used to build id lists per owner
type idPair struct {
	OwnerID uint
	ID      uint
}

// groupIDs returns child ids of model keyed by ownerColumn, ordered by id
func groupIDs(db *gorm.DB, model interface{}, ownerColumn string, owners []uint) (map[uint][]uint, error) {
	result := make(map[uint][]uint, len(owners))
	if len(owners) == 0 {
		return result, nil
	}

	var pairs []idPair
	err := db.Model(model).
		Select(ownerColumn+" AS owner_id, id").
		Where(ownerColumn+" IN ?", owners).
		Order("id ASC").
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}

	for _, p := range pairs {
		result[p.OwnerID] = append(result[p.OwnerID], p.ID)
	}
	return result, nil
}

// exists reports whether a row of model with the given primary key is present
func exists(db *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	err := db.Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

package shopping

import (
	"gorm.io/gorm"
	"philcali.me/groceries/internal/data"
)

// Renumbers the items of one list to 0..n-1 keeping their relative order.
// Ties on position fall back to the id so the outcome is deterministic.
const reconcileStatement = `
UPDATE shopping_list_items
SET position = ranked.new_position
FROM (
    SELECT id, ROW_NUMBER() OVER (ORDER BY position, id) - 1 AS new_position
    FROM shopping_list_items
    WHERE shopping_list_id = ?
) AS ranked
WHERE shopping_list_items.id = ranked.id
  AND shopping_list_items.position <> ranked.new_position`

// NextPosition returns the position an item appended to the list takes,
// which is the current number of items in it.
func NextPosition(tx *gorm.DB, listId string) (int, error) {
	var count int64
	err := tx.Model(&data.ShoppingListItemDTO{}).Where("shopping_list_id = ?", listId).Count(&count).Error
	return int(count), err
}

// ReconcilePositions closes the gaps left by deleted items. It must run in
// the transaction that removed them.
func ReconcilePositions(tx *gorm.DB, listId string) error {
	return tx.Exec(reconcileStatement, listId).Error
}

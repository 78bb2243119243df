package orders

import (
	"github.com/herblink/herblink-backend/pkg/db/models"
)

// List is one page of orders plus the cursor for the next page.
type List struct {
	Orders     []models.Order
	NextCursor *string
}

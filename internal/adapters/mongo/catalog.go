package mongo

import (
	"context"
	"time"

	"github.com/mdsaif2022/ntb-booking-server/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogRepository reads per-tour seat layouts. It backs the inventory's
// LayoutProvider; tours without a document fall back to the default layout.
type CatalogRepository struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewCatalogRepository(db *mongo.Database, logger observability.Logger) *CatalogRepository {
	return &CatalogRepository{
		coll:   db.Collection("tours"),
		logger: logger,
	}
}

type TourDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	SeatIDs   []string  `bson:"seat_ids"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Layout returns the seat ids configured for the tour, or nil when no
// document exists.
func (c *CatalogRepository) Layout(ctx context.Context, resourceID string) ([]string, error) {
	var tour TourDoc
	err := c.coll.FindOne(ctx, bson.M{"_id": resourceID}).Decode(&tour)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("failed to get tour layout: ", err)
		return nil, err
	}
	return tour.SeatIDs, nil
}

func (c *CatalogRepository) UpsertTour(ctx context.Context, tour TourDoc) error {
	tour.UpdatedAt = time.Now()
	if tour.CreatedAt.IsZero() {
		tour.CreatedAt = tour.UpdatedAt
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": tour.ID}, tour, options.Replace().SetUpsert(true))
	if err != nil {
		c.logger.Error("failed to upsert tour: ", err)
		return err
	}
	return nil
}

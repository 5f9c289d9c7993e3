package databases

// go generate: mockery --name EmissionDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecotrackhq/ecotrack-api/models"
)

const emissionName = "emissions"

// EmissionDatabase contains the methods to use with the emission database
type EmissionDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Emission, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Emission, error)
	InsertOne(ctx context.Context, emission models.Emission) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}) (CursorHelper, error)
}

type emissionDatabase struct {
	db DatabaseHelper
}

// NewEmissionDatabase initializes a new instance of emission database with the provided db connection
func NewEmissionDatabase(db DatabaseHelper) EmissionDatabase {
	return &emissionDatabase{
		db: db,
	}
}

func (c *emissionDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Emission, error) {
	emission := &models.Emission{}
	err := c.db.Collection(emissionName).FindOne(ctx, filter).Decode(&emission)
	if err != nil {
		return nil, err
	}
	return emission, nil
}

func (c *emissionDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Emission, error) {
	var emissions []models.Emission
	cur, err := c.db.Collection(emissionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&emissions)
	if err != nil {
		return nil, err
	}
	return emissions, nil
}

func (c *emissionDatabase) InsertOne(ctx context.Context, emission models.Emission) (InsertOneResultHelper, error) {
	return c.db.Collection(emissionName).InsertOne(ctx, emission)
}

func (c *emissionDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(emissionName).UpdateOne(ctx, filter, update, opts...)
}

func (c *emissionDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(emissionName).DeleteOne(ctx, filter)
}

func (c *emissionDatabase) Aggregate(ctx context.Context, pipeline interface{}) (CursorHelper, error) {
	return c.db.Collection(emissionName).Aggregate(ctx, pipeline)
}

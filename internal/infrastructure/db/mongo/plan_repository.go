package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nutritionnest/coaching-api/internal/core/domain"
)

const plansCollection = "plans"

type PlanRepository struct {
	coll *mongo.Collection
}

func NewPlanRepository(db *mongo.Database) *PlanRepository {
	return &PlanRepository{coll: db.Collection(plansCollection)}
}

type planDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	StartDate     time.Time          `bson:"start_date"`
	EndDate       time.Time          `bson:"end_date"`
	CalorieTarget int                `bson:"calorie_target"`
	ProteinTarget int                `bson:"protein_target"`
	CarbsTarget   int                `bson:"carbs_target"`
	FatTarget     int                `bson:"fat_target"`
	Meals         []domain.Meal      `bson:"meals"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (r *PlanRepository) Create(ctx context.Context, plan *domain.Plan) (*domain.Plan, error) {
	res, err := r.coll.InsertOne(ctx, planToDoc(plan))
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert plan: unexpected id type %T", res.InsertedID)
	}

	created := *plan
	created.ID = oid.Hex()
	return &created, nil
}

func (r *PlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	oid, err := primitive.ObjectIDFromHex(plan.ID)
	if err != nil {
		return domain.ErrPlanNotFound
	}

	doc := planToDoc(plan)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPlanNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*domain.Plan, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPlanNotFound
	}

	var doc planDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("find plan: %w", err)
	}
	return docToPlan(doc), nil
}

func (r *PlanRepository) FindAll(ctx context.Context) ([]domain.Plan, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer cur.Close(ctx)

	var plans []domain.Plan
	for cur.Next(ctx) {
		var doc planDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode plan: %w", err)
		}
		plans = append(plans, *docToPlan(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, nil
}

func planToDoc(p *domain.Plan) planDoc {
	return planDoc{
		Title:         p.Title,
		Description:   p.Description,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		CalorieTarget: p.CalorieTarget,
		ProteinTarget: p.ProteinTarget,
		CarbsTarget:   p.CarbsTarget,
		FatTarget:     p.FatTarget,
		Meals:         p.Meals,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func docToPlan(doc planDoc) *domain.Plan {
	return &domain.Plan{
		ID:            doc.ID.Hex(),
		Title:         doc.Title,
		Description:   doc.Description,
		StartDate:     doc.StartDate,
		EndDate:       doc.EndDate,
		CalorieTarget: doc.CalorieTarget,
		ProteinTarget: doc.ProteinTarget,
		CarbsTarget:   doc.CarbsTarget,
		FatTarget:     doc.FatTarget,
		Meals:         doc.Meals,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

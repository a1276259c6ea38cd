package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-mcmv-rural/internal/logging"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/models"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/observability"
	"github.com/prefeitura-rio/app-mcmv-rural/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Compile-time interface satisfaction check.
var _ BeneficiaryRepository = (*MongoRepository)(nil)

const cpfIndexName = "cpf_1"

// MongoRepository stores beneficiaries as documents in a MongoDB collection
type MongoRepository struct {
	collection *mongo.Collection
	logger     *logging.SafeLogger
}

// NewMongoRepository creates a repository over database.collectionName
func NewMongoRepository(database *mongo.Database, collectionName string, logger *logging.SafeLogger) *MongoRepository {
	return &MongoRepository{
		collection: database.Collection(collectionName),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique CPF index when it does not exist yet.
// Safe to call on every startup.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cursor, err := r.collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if name, ok := index["name"].(string); ok && name == cpfIndexName {
			r.logger.Debug("beneficiary index already exists",
				zap.String("collection", r.collection.Name()))
			return nil
		}
	}

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "cpf", Value: 1}},
		Options: options.Index().SetName(cpfIndexName).SetUnique(true),
	}

	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		// Another instance may have created it concurrently
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("create cpf index: %w", err)
	}

	r.logger.Info("created beneficiary index",
		zap.String("collection", r.collection.Name()),
		zap.String("index", cpfIndexName))
	return nil
}

// Upsert replaces the document for b.CPF, setting data_cadastro only when the
// document is first inserted
func (r *MongoRepository) Upsert(ctx context.Context, b *models.Beneficiary) error {
	ctx, span := utils.TraceDatabaseUpsert(ctx, "mongodb", r.collection.Name())
	defer span.End()

	set := bson.M{
		"nome":          b.Name,
		"profissao":     b.Profession,
		"atividade":     b.Activity,
		"renda":         b.Income,
		"estado_civil":  string(b.MaritalStatus),
		"beneficio":     b.Benefit,
		"endereco":      b.Address,
		"telefone":      b.Phone,
		"pcd":           b.PCD,
		"idosos":        b.Elderly,
		"criancas":      b.Children,
		"moradores":     b.Residents,
		"atualizado_em": b.UpdatedAt.UTC(),
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"data_cadastro": b.RegisteredAt},
	}
	if b.Spouse != nil {
		set["conjuge"] = b.Spouse
	} else {
		update["$unset"] = bson.M{"conjuge": ""}
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"cpf": b.CPF},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"db.collection": r.collection.Name()})
		observability.DatabaseOperations.WithLabelValues("upsert", "error").Inc()
		return fmt.Errorf("upsert beneficiary %s: %w", observability.MaskCPF(b.CPF), err)
	}

	observability.DatabaseOperations.WithLabelValues("upsert", "success").Inc()
	return nil
}

// FindByCPF returns the stored document for cpf
func (r *MongoRepository) FindByCPF(ctx context.Context, cpf string) (*models.Beneficiary, error) {
	ctx, span := utils.TraceDatabaseFind(ctx, "mongodb", r.collection.Name())
	defer span.End()

	var b models.Beneficiary
	err := r.collection.FindOne(ctx, bson.M{"cpf": cpf}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.DatabaseOperations.WithLabelValues("find", "not_found").Inc()
		return nil, models.ErrBeneficiaryNotFound
	}
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{"db.collection": r.collection.Name()})
		observability.DatabaseOperations.WithLabelValues("find", "error").Inc()
		return nil, fmt.Errorf("find beneficiary %s: %w", observability.MaskCPF(cpf), err)
	}

	observability.DatabaseOperations.WithLabelValues("find", "success").Inc()
	return &b, nil
}

// Ping checks the server connection
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

// Close disconnects the underlying client
func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.collection.Database().Client().Disconnect(ctx)
}

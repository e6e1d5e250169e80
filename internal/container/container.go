package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/natours-auth/config"
	"github.com/oksasatya/natours-auth/internal/domain/repository"
	"github.com/oksasatya/natours-auth/pkg/apperror"
	"github.com/oksasatya/natours-auth/pkg/helpers"
	"github.com/oksasatya/natours-auth/pkg/response"
)

// app-level container to share constructed components across packages.
// cmd/main.go sets everything once before the router is built.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	mongoDB     *mongo.Database
	redisClient *redis.Client

	userRepo   repository.UserRepository
	hasher     *helpers.PasswordHasher
	jwtManager *helpers.JWTManager
	rabbitPub  *helpers.RabbitPublisher

	classifier *apperror.Classifier
	responder  *response.ErrorResponder
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetMongo(db *mongo.Database)   { mongoDB = db }
func GetMongo() *mongo.Database     { return mongoDB }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetJWT(m *helpers.JWTManager)  { jwtManager = m }
func GetJWT() *helpers.JWTManager   { return jwtManager }
func SetHasher(h *helpers.PasswordHasher) { hasher = h }
func GetHasher() *helpers.PasswordHasher  { return hasher }

func SetUserRepo(r repository.UserRepository) { userRepo = r }
func GetUserRepo() repository.UserRepository  { return userRepo }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

// SetErrorPipeline stores the classifier and responder built from the same mode.
func SetErrorPipeline(c *apperror.Classifier, r *response.ErrorResponder) {
	classifier, responder = c, r
}
func GetClassifier() *apperror.Classifier      { return classifier }
func GetResponder() *response.ErrorResponder   { return responder }

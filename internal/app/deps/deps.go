package deps

import (
	"context"
	"sync"
	"time"
	"usuario/internal/config"
	"usuario/internal/core/domain/hook"
	dl "usuario/internal/core/domain/logging"
	"usuario/internal/core/domain/mail"
	drl "usuario/internal/core/domain/rate_limiter"
	"usuario/internal/core/domain/social"
	"usuario/internal/core/domain/token"
	duow "usuario/internal/core/domain/unit_of_work"
	"usuario/internal/core/domain/user"
	dbsocial "usuario/internal/db/social"
	dbtoken "usuario/internal/db/token"
	uow "usuario/internal/db/unit_of_work"
	dbuser "usuario/internal/db/user"
	"usuario/internal/implementations/email"
	"usuario/internal/implementations/logging"
	passwordhasher "usuario/internal/implementations/password_hasher"
	ratelimiter "usuario/internal/implementations/rate_limiter"
	tokengenerator "usuario/internal/implementations/token_generator"
	"usuario/internal/rabbitmq"
	userevents "usuario/internal/rabbitmq/publishers/user_events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork        duow.UnitOfWork
	UserRepository    user.UserRepository
	SessionRepository user.SessionRepository
	TokenStore        token.Store
	SocialRepository  social.Repository

	RateLimiter drl.RateLimiter

	MailSender mail.Sender

	TokenGenerator        token.Generator
	SessionTokenGenerator user.SessionTokenGenerator
	PasswordHasher        user.PasswordHasher

	Hooks *hook.Registry
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.SessionRepository = dbuser.NewPgxSessionRepository(deps.DB)
	deps.TokenStore = dbtoken.NewPgxStore(deps.DB)
	deps.SocialRepository = dbsocial.NewPgxRepository(deps.DB)

	deps.MailSender = email.NewSender(
		deps.AwsConfig,
		deps.Config.AwsEmailSender,
		deps.Config.AwsEmailWelcomeTemplate,
		deps.Config.AwsEmailConfirmationTemplate,
		deps.Config.EmailConfirmationBaseURL,
	)

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.TokenGenerator = tokengenerator.NewGenerator()
	deps.SessionTokenGenerator = tokengenerator.NewGenerator()
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)

	closeUserEventsPublisher := deps.initHooks()

	return deps, func() {
		closeFuncs := []func(){
			closeUserEventsPublisher,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

// initHooks wires the lifecycle hook registry and subscribes the AMQP
// publisher to the after-events.
func (deps *Deps) initHooks() func() {
	deps.Hooks = hook.NewRegistry(deps.Logger)

	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}
	err = rabbitmqChannel.ExchangeDeclare(
		deps.Config.RabbitmqUserEventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ exchange.", dl.Entry("err", err))
		panic(err)
	}

	publisher := userevents.NewRabbitMQ(
		deps.Logger,
		rabbitmqChannel,
		deps.Config.RabbitmqUserEventsExchange,
		deps.Now,
	)
	deps.Hooks.Register(hook.AfterRegister, publisher)
	deps.Hooks.Register(hook.AfterConfirmation, publisher)
	deps.Hooks.Register(hook.AfterResend, publisher)
	deps.Hooks.Register(hook.AfterConnect, publisher)

	return func() {
		deps.Logger.Info(context.Background(), "Shutting down user events publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "User events publisher shut down.")
	}
}

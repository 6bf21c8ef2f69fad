package app

import (
	"context"
	"time"

	"github.com/Abraxas-365/shortlist/internal/ai/evaluator"
	"github.com/Abraxas-365/shortlist/internal/config"
	"github.com/Abraxas-365/shortlist/internal/metrics"
	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/Abraxas-365/shortlist/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/shortlist/pkg/iam/auth"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/Abraxas-365/shortlist/pkg/recordstore"
	"github.com/Abraxas-365/shortlist/pkg/recordstore/airtable"
	"github.com/Abraxas-365/shortlist/pkg/recordstore/memstore"
	"github.com/Abraxas-365/shortlist/pkg/recordstore/sqlstore"
	"github.com/Abraxas-365/shortlist/recruitment/applicant"
	"github.com/Abraxas-365/shortlist/recruitment/applicant/applicantapi"
	"github.com/Abraxas-365/shortlist/recruitment/applicant/applicantexport"
	"github.com/Abraxas-365/shortlist/recruitment/applicant/applicantinfra"
	"github.com/Abraxas-365/shortlist/recruitment/applicant/applicantsrv"
	"github.com/Abraxas-365/shortlist/recruitment/applicant/worker"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
)

// Options selects the optional parts a command needs
type Options struct {
	Evaluator bool
	Queue     bool
	Server    bool
}

type Container struct {
	Config *config.Config

	Store    recordstore.Store
	Airtable *airtable.Client
	SQL      *sqlstore.Store
	Redis    *redis.Client
	S3Client *s3.Client

	Repos     applicantsrv.Collections
	Evaluator applicant.Evaluator
	Archive   applicant.SnapshotArchive
	Queue     *applicantinfra.RedisQueue

	Processor    *applicantsrv.Processor
	Decompressor *applicantsrv.Decompressor
	Worker       *worker.DecompressWorker
	Metrics      *metrics.Metrics

	TokenService          *auth.TokenService
	UnifiedAuthMiddleware *auth.UnifiedAuthMiddleware
	ApplicantHandlers     *applicantapi.ApplicantHandlers
}

// NewContainer wires everything cfg and opts ask for
func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{Config: cfg}
	if opts.Server {
		// POST /api/runs needs the processor
		opts.Evaluator = true
	}
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))

	if err := c.initStore(ctx); err != nil {
		return nil, err
	}
	c.initRepositories()

	if err := c.initArchive(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if opts.Evaluator {
		if err := c.initEvaluator(); err != nil {
			c.Close()
			return nil, err
		}
		c.Processor = applicantsrv.NewProcessor(c.Repos, c.Evaluator, c.Archive)
	}

	if opts.Server {
		c.Metrics = metrics.New()
	}

	c.Decompressor = applicantsrv.NewDecompressor(c.Repos)
	if opts.Queue {
		c.initQueue(ctx)
	}

	if opts.Server {
		if err := cfg.RequireServer(); err != nil {
			c.Close()
			return nil, err
		}
		c.TokenService = auth.NewTokenService(cfg.Server.JWTSecret, auth.DefaultIssuer)
		c.UnifiedAuthMiddleware = auth.NewUnifiedAuthMiddleware(c.TokenService)
		c.ApplicantHandlers = applicantapi.NewApplicantHandlers(c.Metrics.InstrumentRunner(c.Processor), c.decompressService()).
			WithExporter(applicantexport.NewExporter(c.Repos.Applicants))
	}

	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Store.Driver {
	case config.DriverAirtable:
		c.Airtable = airtable.New(airtable.Config{
			APIKey:     c.Config.Store.AirtableAPIKey,
			BaseID:     c.Config.Store.AirtableBaseID,
			BaseURL:    c.Config.Store.AirtableBaseURL,
			RetryCount: 3,
		})
		c.Store = c.Airtable

	case config.DriverPostgres, config.DriverSQLite:
		store, err := sqlstore.Open(c.Config.Store.Driver, c.Config.Store.DSN)
		if err != nil {
			return err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return err
		}
		c.SQL = store
		c.Store = store

	case config.DriverMemory:
		logx.Warn("Using the in-memory record store; nothing will be persisted")
		c.Store = memstore.New()
	}

	logx.Infof("Record store: %s", c.Config.Store.Driver)
	return nil
}

func (c *Container) initRepositories() {
	c.Repos = applicantsrv.Collections{
		Applicants: applicantinfra.NewRecordApplicantRepository(c.Store),
		Personal:   applicantinfra.NewPersonalDetailsRepository(c.Store),
		Experience: applicantinfra.NewWorkExperienceRepository(c.Store),
		Salary:     applicantinfra.NewSalaryPreferencesRepository(c.Store),
		Leads:      applicantinfra.NewRecordLeadRepository(c.Store),
	}
}

func (c *Container) initArchive(ctx context.Context) error {
	if !c.Config.Archive.Enabled() {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.Config.Archive.Region))
	if err != nil {
		return errx.Wrap(err, "unable to load AWS SDK config", errx.TypeInternal)
	}
	c.S3Client = s3.NewFromConfig(awsCfg)
	fs := fsxs3.NewS3FileSystem(c.S3Client, c.Config.Archive.Bucket, c.Config.Archive.Prefix)
	c.Archive = applicantinfra.NewFileSnapshotArchive(fs)

	logx.Infof("Snapshot archive: s3://%s/%s", c.Config.Archive.Bucket, c.Config.Archive.Prefix)
	return nil
}

func (c *Container) initEvaluator() error {
	if err := c.Config.RequireEvaluator(); err != nil {
		return err
	}

	ev, err := evaluator.New(evaluator.Config{
		Provider:   c.Config.Evaluator.Provider,
		APIKey:     c.Config.Evaluator.APIKey,
		Model:      c.Config.Evaluator.Model,
		MaxRetries: c.Config.Evaluator.MaxRetries,
		StubDelay:  c.Config.Evaluator.StubDelay,
	})
	if err != nil {
		return err
	}
	c.Evaluator = ev

	logx.Infof("Evaluator: %s", c.Config.Evaluator.Provider)
	return nil
}

// initQueue connects Redis; without it decompression runs inline
func (c *Container) initQueue(ctx context.Context) {
	if !c.Config.Redis.Enabled() {
		return
	}

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Redis.Ping(pingCtx).Err(); err != nil {
		logx.Warnf("Failed to connect to Redis, decompression will run inline: %v", err)
		_ = c.Redis.Close()
		c.Redis = nil
		return
	}

	c.Queue = applicantinfra.NewRedisQueue(c.Redis, c.Config.Redis.Queue)
	c.Decompressor.WithQueue(c.Queue)
	c.Worker = worker.NewDecompressWorker(c.decompressService(), c.Queue)
}

// decompressService is the decompressor, instrumented when metrics are on
func (c *Container) decompressService() metrics.Decompressor {
	if c.Metrics == nil {
		return c.Decompressor
	}
	return c.Metrics.InstrumentDecompressor(c.Decompressor)
}

// Health reports which backends answer
func (c *Container) Health(ctx context.Context) map[string]any {
	status := map[string]any{
		"store": c.Config.Store.Driver,
	}

	switch {
	case c.Airtable != nil:
		status["store_ok"] = c.Airtable.Ping(ctx, applicant.TableApplicants) == nil
	case c.SQL != nil:
		status["store_ok"] = c.SQL.Ping(ctx) == nil
	default:
		status["store_ok"] = true
	}

	if c.Redis != nil {
		status["redis"] = c.Redis.Ping(ctx).Err() == nil
		if size, err := c.Queue.Size(ctx); err == nil {
			status["queue_size"] = size
		}
	}
	status["archive"] = c.Archive != nil
	return status
}

// Close releases connections
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Warnf("Closing Redis: %v", err)
		}
	}
	if c.SQL != nil {
		if err := c.SQL.Close(); err != nil {
			logx.Warnf("Closing record store: %v", err)
		}
	}
	logx.Sync()
}

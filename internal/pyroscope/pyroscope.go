package pyroscope

import (
	"context"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/logger"
	"go.uber.org/fx"
)

// Service runs the continuous profiler and labels profiled work
type Service struct {
	cfg      *config.Configuration
	logger   *logger.Logger
	profiler *pyroscope.Profiler
}

func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewPyroscopeService),
		fx.Invoke(RegisterHooks),
	)
}

func NewPyroscopeService(cfg *config.Configuration, logger *logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger,
	}
}

func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !svc.IsEnabled() {
				svc.logger.Info("pyroscope profiling is disabled")
				return nil
			}
			return svc.start()
		},
		OnStop: func(ctx context.Context) error {
			if svc.profiler == nil {
				return nil
			}
			svc.logger.Info("stopping pyroscope profiling")
			return svc.profiler.Stop()
		},
	})
}

func (s *Service) start() error {
	profileTypes := s.profileTypes()

	cfg := pyroscope.Config{
		ApplicationName: s.cfg.Pyroscope.ApplicationName,
		ServerAddress:   s.cfg.Pyroscope.ServerAddress,
		ProfileTypes:    profileTypes,
		SampleRate:      s.cfg.Pyroscope.SampleRate,
		DisableGCRuns:   s.cfg.Pyroscope.DisableGCRuns,
		Logger:          s,
		Tags: map[string]string{
			"deployment_mode": string(s.cfg.Deployment.Mode),
		},
	}
	if s.cfg.Pyroscope.BasicAuthUser != "" {
		cfg.BasicAuthUser = s.cfg.Pyroscope.BasicAuthUser
		cfg.BasicAuthPassword = s.cfg.Pyroscope.BasicAuthPass
	}

	profiler, err := pyroscope.Start(cfg)
	if err != nil {
		s.logger.Errorw("failed to start pyroscope", "error", err)
		return err
	}
	s.profiler = profiler

	s.logger.Infow("pyroscope profiling started",
		"application_name", s.cfg.Pyroscope.ApplicationName,
		"server_address", s.cfg.Pyroscope.ServerAddress,
		"profile_types", profileTypes,
		"sample_rate", s.cfg.Pyroscope.SampleRate)
	return nil
}

// pyroscope.Logger; debug output is too chatty to forward
func (s *Service) Debugf(format string, args ...interface{}) {}

func (s *Service) Infof(format string, args ...interface{}) {
	s.logger.Infof("[pyroscope] "+format, args...)
}

func (s *Service) Errorf(format string, args ...interface{}) {
	s.logger.Errorf("[pyroscope] "+format, args...)
}

func (s *Service) IsEnabled() bool {
	return s != nil && s.cfg.Pyroscope.Enabled
}

func (s *Service) profileTypes() []pyroscope.ProfileType {
	if len(s.cfg.Pyroscope.ProfileTypes) == 0 {
		return []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileGoroutines,
		}
	}

	var types []pyroscope.ProfileType
	for _, profileType := range s.cfg.Pyroscope.ProfileTypes {
		switch strings.ToLower(profileType) {
		case "cpu":
			types = append(types, pyroscope.ProfileCPU)
		case "inuse_objects":
			types = append(types, pyroscope.ProfileInuseObjects)
		case "alloc_objects":
			types = append(types, pyroscope.ProfileAllocObjects)
		case "inuse_space":
			types = append(types, pyroscope.ProfileInuseSpace)
		case "alloc_space":
			types = append(types, pyroscope.ProfileAllocSpace)
		case "goroutines":
			types = append(types, pyroscope.ProfileGoroutines)
		case "mutex_count":
			types = append(types, pyroscope.ProfileMutexCount)
		case "mutex_duration":
			types = append(types, pyroscope.ProfileMutexDuration)
		case "block_count":
			types = append(types, pyroscope.ProfileBlockCount)
		case "block_duration":
			types = append(types, pyroscope.ProfileBlockDuration)
		default:
			s.logger.Warnw("unknown pyroscope profile type", "type", profileType)
		}
	}
	return types
}

// TagWrapper runs fn with profiling labels attached
func (s *Service) TagWrapper(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	if !s.IsEnabled() {
		fn(ctx)
		return
	}

	pairs := make([]string, 0, len(labels)*2)
	for key, value := range labels {
		pairs = append(pairs, key, value)
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

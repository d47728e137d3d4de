package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/koliving/api/internal/auth/domain"
	authService "github.com/koliving/api/internal/auth/service"
	authUseCase "github.com/koliving/api/internal/auth/usecase"
)

// OutcomeKind tells the pipeline what to do after a stage.
type OutcomeKind int

const (
	// OutcomeContinue passes the exchange to the next stage.
	OutcomeContinue OutcomeKind = iota
	// OutcomeShortCircuit ends the request; the stage has written the response.
	OutcomeShortCircuit
	// OutcomeReject ends the request with Err, written by the ErrorTranslator.
	OutcomeReject
)

// Outcome is the result of one stage.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

// Continue lets the next stage run.
func Continue() Outcome { return Outcome{Kind: OutcomeContinue} }

// ShortCircuit stops the pipeline after the stage wrote a response.
func ShortCircuit() Outcome { return Outcome{Kind: OutcomeShortCircuit} }

// Reject stops the pipeline with err.
func Reject(err error) Outcome { return Outcome{Kind: OutcomeReject, Err: err} }

// Exchange is the per-request state shared by the stages.
type Exchange struct {
	Context        *gin.Context
	Classification authDomain.Classification
	// Principal is the identity bound by the bearer token stage, or nil.
	Principal *authDomain.Principal
}

// Stage is one step of the authentication pipeline.
type Stage interface {
	Name() string
	Process(ex *Exchange) Outcome
}

// Pipeline runs its stages in order for every request and dispatches to the
// downstream handlers only when every stage continues.
type Pipeline struct {
	stages     []Stage
	translator *ErrorTranslator
	logger     *slog.Logger
}

// NewPipeline creates a Pipeline over stages in the given order.
func NewPipeline(stages []Stage, translator *ErrorTranslator, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		stages:     stages,
		translator: translator,
		logger:     logger,
	}
}

// Handler returns the pipeline as gin middleware.
func (p *Pipeline) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		baseCtx := c.Request.Context()
		ex := &Exchange{Context: c}

		defer p.translator.Recover(c)
		defer func() {
			ex.Principal = nil
			c.Request = c.Request.WithContext(WithPrincipal(baseCtx, nil))
		}()

		for _, stage := range p.stages {
			if err := c.Request.Context().Err(); err != nil {
				p.logger.Debug("request cancelled, aborting pipeline",
					slog.String("stage", stage.Name()),
					slog.Any("error", err))
				c.Abort()
				return
			}

			outcome := stage.Process(ex)
			switch outcome.Kind {
			case OutcomeContinue:
				continue
			case OutcomeShortCircuit:
				c.Abort()
				return
			case OutcomeReject:
				p.translator.Translate(c, outcome.Err)
				return
			}
		}

		c.Next()
	}
}

// PipelineDeps are the collaborators of the standard authentication pipeline.
type PipelineDeps struct {
	Classifier RouteClassifier
	// Throttle limits login attempts; nil disables throttling.
	Throttle   *LoginThrottle
	Provider   authUseCase.AuthenticationProvider
	Tokens     authService.TokenService
	Translator *ErrorTranslator
	Logger     *slog.Logger
}

// NewAuthPipeline assembles the standard stage order: classify, login
// throttle, login, logout, bearer token, role.
func NewAuthPipeline(deps PipelineDeps) *Pipeline {
	stages := []Stage{
		NewClassifyStage(deps.Classifier),
		NewLoginThrottleStage(deps.Throttle, deps.Logger),
		NewLoginStage(
			deps.Provider,
			deps.Tokens,
			NewLoginSuccessHandler(deps.Logger),
			NewLoginFailureHandler(deps.Translator),
		),
		NewLogoutStage(deps.Translator),
		NewBearerTokenStage(deps.Tokens, deps.Logger),
		NewRoleStage(deps.Logger),
	}
	return NewPipeline(stages, deps.Translator, deps.Logger)
}

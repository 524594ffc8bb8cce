package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dalfonso89/bitcoin-fees-service/bitcoinfees"
	"github.com/dalfonso89/bitcoin-fees-service/internal/logger"
	"github.com/dalfonso89/bitcoin-fees-service/internal/models"
)

// Error types returned to handlers for status mapping
type ErrorType int

const (
	ErrorTypeUpstreamTransport ErrorType = iota
	ErrorTypeUpstreamInvalid
	ErrorTypeContextCancelled
	ErrorTypeUnknown
)

// ServiceError represents a service-specific error with type information
type ServiceError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// classifyError maps a client error onto a service error type
func classifyError(err error) ErrorType {
	var serviceError *ServiceError
	switch {
	case err == nil:
		return ErrorTypeUnknown
	case errors.As(err, &serviceError):
		return serviceError.Type
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeContextCancelled
	case bitcoinfees.IsDeserializationError(err):
		return ErrorTypeUpstreamInvalid
	case bitcoinfees.IsTransportError(err):
		return ErrorTypeUpstreamTransport
	default:
		return ErrorTypeUnknown
	}
}

// FeesService fronts the upstream fee API for the HTTP handlers
type FeesService struct {
	fetcher bitcoinfees.FeeFetcher
	logger  *logger.Logger
}

// NewFeesService creates a service over any FeeFetcher
func NewFeesService(fetcher bitcoinfees.FeeFetcher, logger *logger.Logger) *FeesService {
	return &FeesService{
		fetcher: fetcher,
		logger:  logger,
	}
}

// GetRecommendedFees fetches the recommended fees once; failures are not retried.
func (feesService *FeesService) GetRecommendedFees(requestContext context.Context) (models.RecommendedFeesResponse, error) {
	startTime := time.Now()
	fees, err := feesService.fetcher.GetRecommendedFees(requestContext)
	if err != nil {
		return models.RecommendedFeesResponse{}, feesService.wrapError("recommended", err)
	}

	feesService.logger.WithFields(map[string]interface{}{
		"endpoint": "recommended",
		"latency":  time.Since(startTime).String(),
	}).Debug(fees.String())
	return models.NewRecommendedFeesResponse(fees), nil
}

// GetFeeList fetches the fee bracket list once; failures are not retried.
func (feesService *FeesService) GetFeeList(requestContext context.Context) (models.FeeListResponse, error) {
	startTime := time.Now()
	list, err := feesService.fetcher.GetFeeList(requestContext)
	if err != nil {
		return models.FeeListResponse{}, feesService.wrapError("list", err)
	}

	feesService.logger.WithFields(map[string]interface{}{
		"endpoint": "list",
		"brackets": len(list.Fees),
		"latency":  time.Since(startTime).String(),
	}).Debug("Fetched fee list")
	return models.NewFeeListResponse(list), nil
}

// Snapshot fetches both endpoints concurrently. The first failure cancels
// the other request.
func (feesService *FeesService) Snapshot(requestContext context.Context) (models.SnapshotResponse, error) {
	var snapshot models.SnapshotResponse
	group, groupContext := errgroup.WithContext(requestContext)

	group.Go(func() error {
		recommended, err := feesService.GetRecommendedFees(groupContext)
		if err != nil {
			return err
		}
		snapshot.Recommended = recommended
		return nil
	})
	group.Go(func() error {
		list, err := feesService.GetFeeList(groupContext)
		if err != nil {
			return err
		}
		snapshot.List = list
		return nil
	})

	if err := group.Wait(); err != nil {
		return models.SnapshotResponse{}, err
	}
	snapshot.FetchedAt = time.Now().UTC()
	return snapshot, nil
}

// HealthCheck reports whether the upstream answers the recommended endpoint
func (feesService *FeesService) HealthCheck(requestContext context.Context) error {
	_, err := feesService.fetcher.GetRecommendedFees(requestContext)
	return err
}

// wrapError logs the upstream failure and converts it to a ServiceError
func (feesService *FeesService) wrapError(endpoint string, err error) error {
	errorType := classifyError(err)
	entry := feesService.logger.WithFields(map[string]interface{}{"endpoint": endpoint})

	var message string
	switch errorType {
	case ErrorTypeContextCancelled:
		message = "upstream request cancelled"
		entry.Warnf("Fee request cancelled: %v", err)
	case ErrorTypeUpstreamInvalid:
		message = "upstream returned an invalid response"
		entry.Errorf("Fee API invalid response: %v", err)
	case ErrorTypeUpstreamTransport:
		message = "upstream request failed"
		entry.Warnf("Fee API transport error: %v", err)
	default:
		message = "fee request failed"
		entry.Errorf("Fee request failed: %v", err)
	}

	return &ServiceError{Type: errorType, Message: message, Cause: err}
}

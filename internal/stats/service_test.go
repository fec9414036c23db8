package stats

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/ratewise/store-ratings-backend/pkg/errors"
)

type fixedCounter int64

func (c fixedCounter) Count(ctx context.Context) (int64, error) {
	return int64(c), nil
}

type failingCounter struct{}

func (failingCounter) Count(ctx context.Context) (int64, error) {
	return 0, errors.New("db down")
}

func TestTotals(t *testing.T) {
	svc := NewService(fixedCounter(3), fixedCounter(2), fixedCounter(7))

	totals, err := svc.Totals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.TotalUsers != 3 || totals.TotalStores != 2 || totals.TotalRatings != 7 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestTotals_counterFailure(t *testing.T) {
	svc := NewService(fixedCounter(1), failingCounter{}, fixedCounter(1))

	_, err := svc.Totals(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr := apperrors.As(err)
	if appErr == nil {
		t.Fatal("expected a typed error")
	}
	if appErr.Code() != apperrors.CodeDependency {
		t.Fatalf("unexpected code %s", appErr.Code())
	}
}

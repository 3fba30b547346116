package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/hallpass/internal/availability/domain"
	"github.com/felixgeelhaar/hallpass/internal/availability/infrastructure/schedulecsv"
)

func TestImportCSVHandler_Handle(t *testing.T) {
	ctx := context.Background()
	txCtx := newTxContext(ctx)

	t.Run("replaces the schedule", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		publisher := new(mockPublisher)
		uow := new(mockUnitOfWork)

		input := strings.Join([]string{
			"day,label,is_class,start,end",
			"monday,Period 2,1,08:10,08:48",
			"tue-fri, Lunch ,0,11:05,11:35",
			"tue-fri,Period 1,,08:00,08:50",
			"wednesday,Ignored,1,08:00,09:00",
		}, "\n")

		want := domain.NewSchedule()
		want[domain.DayKeyMonday] = []domain.BlockRecord{{Label: "Period 2", IsClass: true, Start: "08:10", End: "08:48"}}
		want[domain.DayKeyTueFri] = []domain.BlockRecord{
			{Label: "Lunch", Start: "11:05", End: "11:35"},
			{Label: "Period 1", IsClass: true, Start: "08:00", End: "08:50"},
		}

		uow.On("Begin", ctx).Return(txCtx, nil)
		repo.On("ReplaceAll", txCtx, want).Return(nil)
		uow.On("Commit", txCtx).Return(nil)
		publisher.On("PublishEvent", ctx, scheduleUpdated(domain.DayKeys()...)).Return(nil)

		handler := NewImportCSVHandler(repo, publisher, uow, nil)
		result, err := handler.Handle(ctx, ImportCSVCommand{Source: strings.NewReader(input)})

		require.NoError(t, err)
		assert.Equal(t, 3, result.BlockCount)
		assert.Equal(t, map[domain.DayKey]int{domain.DayKeyMonday: 1, domain.DayKeyTueFri: 2}, result.DayCounts)
		repo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		repo := new(mockScheduleRepo)
		uow := new(mockUnitOfWork)

		input := "day,label,is_class,start,end\nmonday,Period 2,1,8:10am,08:48\n"

		handler := NewImportCSVHandler(repo, nil, uow, nil)
		_, err := handler.Handle(ctx, ImportCSVCommand{Source: strings.NewReader(input)})

		assert.ErrorIs(t, err, domain.ErrMalformedScheduleEntry)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("rejects input without a header", func(t *testing.T) {
		handler := NewImportCSVHandler(new(mockScheduleRepo), nil, new(mockUnitOfWork), nil)
		_, err := handler.Handle(ctx, ImportCSVCommand{Source: strings.NewReader("")})

		assert.ErrorIs(t, err, schedulecsv.ErrInvalidCSV)
	})
}

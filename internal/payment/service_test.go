package payment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ledger/internal/payment"
)

func TestService_GetOrCreate(t *testing.T) {
	type testCase struct {
		name      string
		input     string
		setupMock func(m *payment.MockRepository)
		wantID    int64
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "Success",
			input: " Cash ",
			setupMock: func(m *payment.MockRepository) {
				m.EXPECT().GetOrCreate(gomock.Any(), "Cash").Return(&payment.Method{ID: 3, Name: "Cash"}, nil)
			},
			wantID: 3,
		},
		{
			name:    "Blank",
			input:   "",
			wantErr: payment.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := payment.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := payment.NewService(repo).GetOrCreate(context.Background(), tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestService_Delete_InUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := payment.NewMockRepository(ctrl)
	repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(payment.ErrInUse)

	err := payment.NewService(repo).Delete(context.Background(), 1)
	assert.ErrorIs(t, err, payment.ErrInUse)
}

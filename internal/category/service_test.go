package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ledger/internal/category"
)

func TestService_GetOrCreate(t *testing.T) {
	type testCase struct {
		name      string
		input     string
		setupMock func(m *category.MockRepository)
		want      *category.Category
		wantErr   error
	}

	tests := []testCase{
		{
			name:  "Success",
			input: "food",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetOrCreate(gomock.Any(), "food").Return(&category.Category{ID: 1, Name: "food"}, nil)
			},
			want: &category.Category{ID: 1, Name: "food"},
		},
		{
			name:  "Trimmed",
			input: "  food ",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetOrCreate(gomock.Any(), "food").Return(&category.Category{ID: 1, Name: "food"}, nil)
			},
			want: &category.Category{ID: 1, Name: "food"},
		},
		{
			name:    "Blank",
			input:   "   ",
			wantErr: category.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := category.NewService(repo)
			got, err := svc.GetOrCreate(context.Background(), tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_GetOrCreate_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoErr := errors.New("db error")
	repo := category.NewMockRepository(ctrl)
	repo.EXPECT().GetOrCreate(gomock.Any(), "food").Return(nil, repoErr)

	_, err := category.NewService(repo).GetOrCreate(context.Background(), "food")
	assert.ErrorIs(t, err, repoErr)
}

func TestService_Names(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := category.NewMockRepository(ctrl)
	repo.EXPECT().List(gomock.Any()).Return([]*category.Category{
		{ID: 1, Name: "food"},
		{ID: 2, Name: "rent"},
	}, nil)

	names, err := category.NewService(repo).Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "food", 2: "rent"}, names)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := category.NewMockRepository(ctrl)
	repo.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)

	assert.NoError(t, category.NewService(repo).Delete(context.Background(), 3))
}

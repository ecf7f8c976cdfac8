package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lexbill/internal/matching"
)

func TestService_Suggest(t *testing.T) {
	clientID := uuid.New()

	type testCase struct {
		name      string
		raw       string
		setupMock func(m *matching.MockRepository)
		wantOK    bool
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Match",
			raw:  "  TRF ACME LDA REF 991  ",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindClient(gomock.Any(), "TRF ACME LDA REF 991").Return(&clientID, nil)
			},
			wantOK: true,
		},
		{
			name: "NoMatch",
			raw:  "UNKNOWN PAYER",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindClient(gomock.Any(), "UNKNOWN PAYER").Return(nil, nil)
			},
		},
		{
			name: "RepoError",
			raw:  "TRF",
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().FindClient(gomock.Any(), "TRF").Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, ok, err := matching.NewService(repo).Suggest(context.Background(), tt.raw)

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, ok)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, clientID, got)
			} else {
				assert.Equal(t, uuid.Nil, got)
			}
		})
	}
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	clientID := uuid.New()

	repo.EXPECT().CreateMapping(gomock.Any(), "ACME LDA", clientID).Return(nil)

	svc := matching.NewService(repo)

	require.NoError(t, svc.Learn(context.Background(), " ACME LDA ", clientID))
	assert.ErrorIs(t, svc.Learn(context.Background(), "   ", clientID), matching.ErrInvalidMapping)
	assert.ErrorIs(t, svc.Learn(context.Background(), "ACME", uuid.Nil), matching.ErrInvalidMapping)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"

	"github.com/andreivolkov/gatechat/internal/models"
	redisclient "github.com/andreivolkov/gatechat/internal/redis"
	"github.com/andreivolkov/gatechat/internal/snowflake"
)

// newTestContext builds an Echo context backed by httptest, optionally with a
// JSON body.
func newTestContext(method, path string, body any) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// setAuthUser simulates the auth middleware having run.
func setAuthUser(c echo.Context, userID int64) {
	c.Set("user_id", userID)
}

// newTestRedis starts a miniredis and returns a client bound to it.
func newTestRedis(t *testing.T) *redisclient.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := redisclient.NewClient("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("creating test redis client: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func newTestSnowflake(t *testing.T) *snowflake.Generator {
	t.Helper()
	gen, err := snowflake.NewGenerator(0, 0)
	if err != nil {
		t.Fatalf("creating snowflake generator: %v", err)
	}
	return gen
}

// nopDispatcher satisfies gateway.Dispatcher and discards everything.
type nopDispatcher struct{}

func (nopDispatcher) DispatchToChannel(int64, string, any) {}
func (nopDispatcher) DispatchToUser(int64, string, any) {}
func (nopDispatcher) DispatchToChannelExcept(int64, int64, string, any) {}
func (nopDispatcher) SubscribeToChannel(int64, int64) {}
func (nopDispatcher) UnsubscribeFromChannel(int64, int64) {}

// Function-field mock repositories. Unset fields return zero values.

type mockChannelRepo struct {
	CreateWithOwnerFn func(ctx context.Context, channel *models.Channel, channelRoleIDs, templateRoleIDs []int64, ownerTemplateRoleID, memberID int64) error
	GetByIDFn         func(ctx context.Context, id int64) (*models.Channel, error)
	GetByUserIDFn     func(ctx context.Context, userID int64) ([]models.Channel, error)
	UpdateFn          func(ctx context.Context, channel *models.Channel) error
	DeleteFn          func(ctx context.Context, id int64) error
}

func (m *mockChannelRepo) CreateWithOwner(ctx context.Context, channel *models.Channel, channelRoleIDs, templateRoleIDs []int64, ownerTemplateRoleID, memberID int64) error {
	if m.CreateWithOwnerFn != nil {
		return m.CreateWithOwnerFn(ctx, channel, channelRoleIDs, templateRoleIDs, ownerTemplateRoleID, memberID)
	}
	return nil
}

func (m *mockChannelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockChannelRepo) GetByUserID(ctx context.Context, userID int64) ([]models.Channel, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockChannelRepo) Update(ctx context.Context, channel *models.Channel) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, channel)
	}
	return nil
}

func (m *mockChannelRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

type mockMemberRepo struct {
	CreateWithRoleFn      func(ctx context.Context, member *models.Member, channelRoleID int64) error
	GetByChannelAndUserFn func(ctx context.Context, channelID, userID int64) (*models.Member, error)
	GetByChannelIDFn      func(ctx context.Context, channelID int64, limit, offset int) ([]models.Member, error)
	DeleteFn              func(ctx context.Context, channelID, userID int64) error
	AssignRoleFn          func(ctx context.Context, memberID, channelRoleID int64) error
	RemoveRoleFn          func(ctx context.Context, memberID, channelRoleID int64) error
}

func (m *mockMemberRepo) CreateWithRole(ctx context.Context, member *models.Member, channelRoleID int64) error {
	if m.CreateWithRoleFn != nil {
		return m.CreateWithRoleFn(ctx, member, channelRoleID)
	}
	return nil
}

func (m *mockMemberRepo) GetByChannelAndUser(ctx context.Context, channelID, userID int64) (*models.Member, error) {
	if m.GetByChannelAndUserFn != nil {
		return m.GetByChannelAndUserFn(ctx, channelID, userID)
	}
	return nil, nil
}

func (m *mockMemberRepo) GetByChannelID(ctx context.Context, channelID int64, limit, offset int) ([]models.Member, error) {
	if m.GetByChannelIDFn != nil {
		return m.GetByChannelIDFn(ctx, channelID, limit, offset)
	}
	return nil, nil
}

func (m *mockMemberRepo) Delete(ctx context.Context, channelID, userID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, channelID, userID)
	}
	return nil
}

func (m *mockMemberRepo) AssignRole(ctx context.Context, memberID, channelRoleID int64) error {
	if m.AssignRoleFn != nil {
		return m.AssignRoleFn(ctx, memberID, channelRoleID)
	}
	return nil
}

func (m *mockMemberRepo) RemoveRole(ctx context.Context, memberID, channelRoleID int64) error {
	if m.RemoveRoleFn != nil {
		return m.RemoveRoleFn(ctx, memberID, channelRoleID)
	}
	return nil
}

type mockRoleRepo struct {
	GetByIDFn       func(ctx context.Context, id int64) (*models.Role, error)
	ListActiveFn    func(ctx context.Context, channelID int64) ([]models.ActiveRole, error)
	GetActiveFn     func(ctx context.Context, channelID, roleID int64) (*models.ActiveRole, error)
	CreateCustomFn  func(ctx context.Context, role *models.Role, channelRoleID int64) (bool, error)
	UpdateFn        func(ctx context.Context, role *models.Role) error
	DeleteCustomFn  func(ctx context.Context, channelID, roleID int64) error
	GetByMemberFn   func(ctx context.Context, channelID, userID int64) ([]models.Role, error)
	SeedTemplatesFn func(ctx context.Context, templates []models.Role) error
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRoleRepo) ListActive(ctx context.Context, channelID int64) ([]models.ActiveRole, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx, channelID)
	}
	return nil, nil
}

func (m *mockRoleRepo) GetActive(ctx context.Context, channelID, roleID int64) (*models.ActiveRole, error) {
	if m.GetActiveFn != nil {
		return m.GetActiveFn(ctx, channelID, roleID)
	}
	return nil, nil
}

func (m *mockRoleRepo) CreateCustom(ctx context.Context, role *models.Role, channelRoleID int64) (bool, error) {
	if m.CreateCustomFn != nil {
		return m.CreateCustomFn(ctx, role, channelRoleID)
	}
	return true, nil
}

func (m *mockRoleRepo) Update(ctx context.Context, role *models.Role) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, role)
	}
	return nil
}

func (m *mockRoleRepo) DeleteCustom(ctx context.Context, channelID, roleID int64) error {
	if m.DeleteCustomFn != nil {
		return m.DeleteCustomFn(ctx, channelID, roleID)
	}
	return nil
}

func (m *mockRoleRepo) GetByMember(ctx context.Context, channelID, userID int64) ([]models.Role, error) {
	if m.GetByMemberFn != nil {
		return m.GetByMemberFn(ctx, channelID, userID)
	}
	return nil, nil
}

func (m *mockRoleRepo) SeedTemplates(ctx context.Context, templates []models.Role) error {
	if m.SeedTemplatesFn != nil {
		return m.SeedTemplatesFn(ctx, templates)
	}
	return nil
}

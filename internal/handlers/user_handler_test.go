package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/whoami1432/voosh-authentication/internal/models"
	"github.com/whoami1432/voosh-authentication/internal/services"
)

type fakeProfileStore struct {
	profiles         map[primitive.ObjectID]*models.Profile
	lastUpdateFields map[string]interface{}
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[primitive.ObjectID]*models.Profile)}
}

func (f *fakeProfileStore) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, services.ErrProfileNotFound
}

func (f *fakeProfileStore) GetView(_ context.Context, id primitive.ObjectID) (*models.ProfileView, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	return &models.ProfileView{
		ID:          p.ID,
		Username:    p.Username,
		Bio:         p.Bio,
		Phone:       p.Phone,
		Email:       p.Email,
		Photo:       p.Photo,
		ProfileType: p.ProfileType,
		IsDeleted:   p.IsDeleted,
	}, nil
}

func (f *fakeProfileStore) GetRole(_ context.Context, id primitive.ObjectID) (string, error) {
	p, ok := f.profiles[id]
	if !ok {
		return "", services.ErrProfileNotFound
	}
	return p.Role, nil
}

func (f *fakeProfileStore) Insert(_ context.Context, p *models.Profile) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	f.profiles[p.ID] = p
	return p.ID, nil
}

func (f *fakeProfileStore) Update(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) (bool, error) {
	f.lastUpdateFields = fields
	_, ok := f.profiles[id]
	return ok, nil
}

func (f *fakeProfileStore) ListVisible(_ context.Context, publicOnly bool) ([]models.ProfileView, error) {
	views := make([]models.ProfileView, 0)
	for _, p := range f.profiles {
		if p.IsDeleted {
			continue
		}
		if publicOnly && (p.Role != models.RoleUser || p.ProfileType != models.ProfileTypePublic) {
			continue
		}
		v, _ := f.GetView(context.Background(), p.ID)
		views = append(views, *v)
	}
	return views, nil
}

func newTestRouter(store *fakeProfileStore) *chi.Mux {
	h := NewUserHandler(services.NewProfileService(store), zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/v1/user/register", h.Register)
	r.Get("/api/v1/user/profile/{id}", h.GetProfile)
	r.Put("/api/v1/user/update/profile/{id}", h.UpdateProfile)
	r.Get("/api/v1/user/users/profile/{id}", h.ListProfiles)
	return r
}

const registerBody = `{
	"username": "saravana0",
	"password": "check1a",
	"repeatPassword": "check1a",
	"bio": "05/12/2000",
	"phone": 6381192018,
	"email": "saravana0@gmail.com",
	"photo": "p",
	"profileType": "public"
}`

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	store := newFakeProfileStore()
	r := newTestRouter(store)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/user/register", registerBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	var resp models.MessageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Successfully user registered." {
		t.Fatalf("Message = %q", resp.Message)
	}
	if len(store.profiles) != 1 {
		t.Fatalf("profile count = %d, want 1", len(store.profiles))
	}
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	store := newFakeProfileStore()
	r := newTestRouter(store)

	doRequest(t, r, http.MethodPost, "/api/v1/user/register", registerBody)
	rec := doRequest(t, r, http.MethodPost, "/api/v1/user/register", registerBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp models.MessageResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "User already Exist" {
		t.Fatalf("Message = %q", resp.Message)
	}
	if len(store.profiles) != 1 {
		t.Fatalf("profile count = %d after duplicate, want 1", len(store.profiles))
	}
}

func TestRegisterEndpointValidationFailure(t *testing.T) {
	r := newTestRouter(newFakeProfileStore())

	body := strings.Replace(registerBody, `"username": "saravana0",`, "", 1)
	rec := doRequest(t, r, http.MethodPost, "/api/v1/user/register", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp models.ValidationResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Username is required" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestGetProfileMalformedID(t *testing.T) {
	r := newTestRouter(newFakeProfileStore())

	rec := doRequest(t, r, http.MethodGet, "/api/v1/user/profile/not-an-object-id", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp models.MessageResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Not a valid details" {
		t.Fatalf("Message = %q", resp.Message)
	}
}

func TestGetProfileRedactsSensitiveFields(t *testing.T) {
	store := newFakeProfileStore()
	r := newTestRouter(store)

	doRequest(t, r, http.MethodPost, "/api/v1/user/register", registerBody)
	var id primitive.ObjectID
	for _, p := range store.profiles {
		id = p.ID
	}

	rec := doRequest(t, r, http.MethodGet, "/api/v1/user/profile/"+id.Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, forbidden := range []string{"password", "repeatPassword", "createdAt", "role", "updatedAt"} {
		if strings.Contains(body, `"`+forbidden+`"`) {
			t.Errorf("response leaks %q: %s", forbidden, body)
		}
	}
	if !strings.Contains(body, `"saravana0@gmail.com"`) {
		t.Errorf("response missing profile data: %s", body)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	r := newTestRouter(newFakeProfileStore())

	rec := doRequest(t, r, http.MethodGet, "/api/v1/user/profile/"+primitive.NewObjectID().Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp models.MessageResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "User details is not found" {
		t.Fatalf("Message = %q", resp.Message)
	}
}

func TestUpdateProfileStripsRole(t *testing.T) {
	store := newFakeProfileStore()
	r := newTestRouter(store)

	doRequest(t, r, http.MethodPost, "/api/v1/user/register", registerBody)
	var id primitive.ObjectID
	for _, p := range store.profiles {
		id = p.ID
	}

	// Same payload plus an attempted role escalation.
	body := strings.Replace(registerBody, `"profileType": "public"`, `"profileType": "public", "role": "admin"`, 1)
	rec := doRequest(t, r, http.MethodPut, "/api/v1/user/update/profile/"+id.Hex(), body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var resp models.MessageResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "User details updated successfully." {
		t.Fatalf("Message = %q", resp.Message)
	}
	if _, ok := store.lastUpdateFields["role"]; ok {
		t.Fatal("role from the payload reached the store")
	}
}

func TestUpdateProfileEmailCollision(t *testing.T) {
	store := newFakeProfileStore()
	r := newTestRouter(store)

	doRequest(t, r, http.MethodPost, "/api/v1/user/register", registerBody)
	otherBody := strings.Replace(registerBody, "saravana0@gmail.com", "other1234@gmail.com", 1)
	doRequest(t, r, http.MethodPost, "/api/v1/user/register", otherBody)

	var otherID primitive.ObjectID
	for _, p := range store.profiles {
		if p.Email == "other1234@gmail.com" {
			otherID = p.ID
		}
	}

	// Try to take saravana0's email for the other record.
	rec := doRequest(t, r, http.MethodPut, "/api/v1/user/update/profile/"+otherID.Hex(), registerBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp models.MessageResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "You can't use this email please use another email." {
		t.Fatalf("Message = %q", resp.Message)
	}
}

func TestListProfilesForAdminAndUser(t *testing.T) {
	store := newFakeProfileStore()
	r := newTestRouter(store)

	adminID, _ := store.Insert(context.Background(), &models.Profile{
		Username: "adminuser1", Email: "admin1234@gmail.com",
		Role: models.RoleAdmin, ProfileType: models.ProfileTypePrivate,
	})
	userID, _ := store.Insert(context.Background(), &models.Profile{
		Username: "publicuser", Email: "public123@gmail.com",
		Role: models.RoleUser, ProfileType: models.ProfileTypePublic,
	})
	store.Insert(context.Background(), &models.Profile{
		Username: "privateuser", Email: "private12@gmail.com",
		Role: models.RoleUser, ProfileType: models.ProfileTypePrivate,
	})

	rec := doRequest(t, r, http.MethodGet, "/api/v1/user/users/profile/"+adminID.Hex(), "")
	var adminResp struct {
		Data []models.ProfileView `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &adminResp)
	if len(adminResp.Data) != 3 {
		t.Fatalf("admin sees %d profiles, want 3", len(adminResp.Data))
	}

	rec = doRequest(t, r, http.MethodGet, "/api/v1/user/users/profile/"+userID.Hex(), "")
	var userResp struct {
		Data []models.ProfileView `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &userResp)
	if len(userResp.Data) != 1 {
		t.Fatalf("user sees %d profiles, want 1", len(userResp.Data))
	}
	if userResp.Data[0].Email != "public123@gmail.com" {
		t.Fatalf("user sees %q, want the public user profile", userResp.Data[0].Email)
	}
}

func TestListProfilesUnknownRequester(t *testing.T) {
	r := newTestRouter(newFakeProfileStore())

	rec := doRequest(t, r, http.MethodGet, "/api/v1/user/users/profile/"+primitive.NewObjectID().Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp models.MessageResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "User details is not found" {
		t.Fatalf("Message = %q", resp.Message)
	}
}

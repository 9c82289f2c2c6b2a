package user

import (
	"context"
	"errors"

	locationRepo "suntrack/database/repository/location"
	userRepo "suntrack/database/repository/user"
	"suntrack/hwapi"
	"suntrack/models"
	"suntrack/services/location"
	"suntrack/services/notification"

	"go.mongodb.org/mongo-driver/bson"
)

// fakeLocationRepo is an in-memory LocationRepository.
type fakeLocationRepo struct {
	locations map[string]*models.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[string]*models.Location)}
}

func (f *fakeLocationRepo) Create(ctx context.Context, loc *models.Location) error {
	cp := *loc
	f.locations[loc.ID] = &cp
	return nil
}

func (f *fakeLocationRepo) Update(ctx context.Context, loc *models.Location) error {
	cp := *loc
	f.locations[loc.ID] = &cp
	return nil
}

func (f *fakeLocationRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := f.locations[id]; !ok {
		return 0, nil
	}
	delete(f.locations, id)
	return 1, nil
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id string) (*models.Location, error) {
	loc, ok := f.locations[id]
	if !ok {
		return nil, nil
	}
	cp := *loc
	return &cp, nil
}

func (f *fakeLocationRepo) GetBySerialNumber(ctx context.Context, serialNumber string) (*models.Location, error) {
	for _, loc := range f.locations {
		if loc.HasTracker(serialNumber) || loc.WeatherStation == serialNumber {
			cp := *loc
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLocationRepo) GetAllByIDs(ctx context.Context, ids []string) ([]models.Location, error) {
	out := make([]models.Location, 0, len(ids))
	for _, id := range ids {
		if loc, ok := f.locations[id]; ok {
			out = append(out, *loc)
		}
	}
	return out, nil
}

func (f *fakeLocationRepo) ShareWith(ctx context.Context, userID, locationID string) (int64, error) {
	loc, ok := f.locations[locationID]
	if !ok || loc.IsSharedWith(userID) {
		return 0, nil
	}
	loc.SharedWith = append(loc.SharedWith, userID)
	return 1, nil
}

func cloneLocation(loc *models.Location) *models.Location {
	cp := *loc
	cp.SolarTrackers = append([]models.SolarTracker(nil), loc.SolarTrackers...)
	cp.SharedWith = append([]string(nil), loc.SharedWith...)
	return &cp
}

func (f *fakeLocationRepo) snapshot() map[string]*models.Location {
	snap := make(map[string]*models.Location, len(f.locations))
	for id, loc := range f.locations {
		snap[id] = cloneLocation(loc)
	}
	return snap
}

func (f *fakeLocationRepo) restore(snap map[string]*models.Location) {
	f.locations = snap
}

var _ locationRepo.LocationRepository = (*fakeLocationRepo)(nil)

// fakeUserRepo is an in-memory UserRepository. FindUsersWithDevice
// resolves serial numbers through the location repo, mirroring the
// aggregation join.
type fakeUserRepo struct {
	users     map[string]*models.User
	locations *fakeLocationRepo

	failAddHwNotification bool
	failAddLocation       bool
}

func newFakeUserRepo(locations *fakeLocationRepo) *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User), locations: locations}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeUserRepo) GetByEmailWithProjection(ctx context.Context, email string, projection bson.M) (*models.User, error) {
	return f.GetByEmail(ctx, email)
}

func (f *fakeUserRepo) AddFCMToken(ctx context.Context, userID, fcmToken string) (int64, error) {
	u, ok := f.users[userID]
	if !ok || u.HasFCMToken(fcmToken) {
		return 0, nil
	}
	u.FCMTokens = append(u.FCMTokens, fcmToken)
	return 1, nil
}

func (f *fakeUserRepo) RemoveFCMToken(ctx context.Context, userID, fcmToken string) (int64, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, nil
	}
	for i, t := range u.FCMTokens {
		if t == fcmToken {
			u.FCMTokens = append(u.FCMTokens[:i], u.FCMTokens[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeUserRepo) SetRefreshTokenHash(ctx context.Context, userID, hash string) (int64, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, nil
	}
	u.RefreshTokenHash = hash
	return 1, nil
}

func (f *fakeUserRepo) AddLocation(ctx context.Context, userID, locationID string) (int64, error) {
	if f.failAddLocation {
		return 0, nil
	}
	u, ok := f.users[userID]
	if !ok {
		return 0, nil
	}
	for _, id := range u.Locations {
		if id == locationID {
			return 0, nil
		}
	}
	u.Locations = append(u.Locations, locationID)
	return 1, nil
}

func (f *fakeUserRepo) RemoveLocation(ctx context.Context, userID, locationID string) (int64, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, nil
	}
	for i, id := range u.Locations {
		if id == locationID {
			u.Locations = append(u.Locations[:i], u.Locations[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeUserRepo) RemoveLocationFromAll(ctx context.Context, userIDs []string, locationID string) (int64, error) {
	var modified int64
	for _, userID := range userIDs {
		n, _ := f.RemoveLocation(ctx, userID, locationID)
		modified += n
	}
	return modified, nil
}

func (f *fakeUserRepo) AddInvitation(ctx context.Context, userID string, invitation models.Invitation) (int64, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, nil
	}
	u.Invitations = append(u.Invitations, invitation)
	return 1, nil
}

func (f *fakeUserRepo) RemoveInvitation(ctx context.Context, userID, invitationID string) (int64, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, nil
	}
	for i, inv := range u.Invitations {
		if inv.ID == invitationID {
			u.Invitations = append(u.Invitations[:i], u.Invitations[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeUserRepo) AddHwNotification(ctx context.Context, userID string, n models.HwNotification) (int64, error) {
	if f.failAddHwNotification {
		return 0, nil
	}
	u, ok := f.users[userID]
	if !ok {
		return 0, nil
	}
	u.HwNotifications = models.AppendBounded(u.HwNotifications, n, models.MaxHwNotificationsPerUser)
	return 1, nil
}

func (f *fakeUserRepo) UpdateHwNotificationStatus(ctx context.Context, userID, notificationID string, status models.HwNotificationStatus) (int64, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, nil
	}
	for i := range u.HwNotifications {
		if u.HwNotifications[i].ID == notificationID {
			u.HwNotifications[i].Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeUserRepo) DeleteHwNotification(ctx context.Context, userID, notificationID string) (int64, error) {
	u, ok := f.users[userID]
	if !ok {
		return 0, nil
	}
	for i := range u.HwNotifications {
		if u.HwNotifications[i].ID == notificationID {
			u.HwNotifications = append(u.HwNotifications[:i], u.HwNotifications[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeUserRepo) FindUsersWithDevice(ctx context.Context, serialNumber string) ([]models.User, error) {
	loc, err := f.locations.GetBySerialNumber(ctx, serialNumber)
	if err != nil || loc == nil {
		return nil, err
	}
	out := make([]models.User, 0, len(loc.SharedWith))
	for _, userID := range loc.SharedWith {
		if u, ok := f.users[userID]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.FCMTokens = append([]string(nil), u.FCMTokens...)
	cp.Locations = append([]string(nil), u.Locations...)
	cp.HwNotifications = append([]models.HwNotification(nil), u.HwNotifications...)
	cp.Invitations = append([]models.Invitation(nil), u.Invitations...)
	return &cp
}

func (f *fakeUserRepo) snapshot() map[string]*models.User {
	snap := make(map[string]*models.User, len(f.users))
	for id, u := range f.users {
		snap[id] = cloneUser(u)
	}
	return snap
}

func (f *fakeUserRepo) restore(snap map[string]*models.User) {
	f.users = snap
}

var _ userRepo.UserRepository = (*fakeUserRepo)(nil)

// fakeGateway approves every serial number it is seeded with.
type fakeGateway struct {
	valid map[string]hwapi.ValidateResult
}

func (f *fakeGateway) ValidateSerialNumber(ctx context.Context, kind hwapi.DeviceKind, serialNumber string) (*hwapi.ValidateResult, error) {
	result, ok := f.valid[serialNumber]
	if !ok {
		return &hwapi.ValidateResult{IsValid: false}, nil
	}
	return &result, nil
}

func (f *fakeGateway) GetSolarTrackersInsights(ctx context.Context, serialNumbers []string) (map[string]hwapi.SolarTrackerInsights, error) {
	return map[string]hwapi.SolarTrackerInsights{}, nil
}

func (f *fakeGateway) GetWeatherStationInsights(ctx context.Context, serialNumber string) (*hwapi.WeatherStationInsights, error) {
	return &hwapi.WeatherStationInsights{}, nil
}

// fakePush records every delivery.
type fakePush struct {
	sent []sentPush
}

type sentPush struct {
	token   string
	payload notification.Payload
	display *notification.Display
}

func (f *fakePush) Send(ctx context.Context, fcmToken string, payload notification.Payload, display *notification.Display) {
	f.sent = append(f.sent, sentPush{token: fcmToken, payload: payload, display: display})
}

func (f *fakePush) tokens() []string {
	out := make([]string, 0, len(f.sent))
	for _, p := range f.sent {
		out = append(out, p.token)
	}
	return out
}

// fakeTxn runs the unit of work against the in-memory stores with
// rollback semantics: the stores are snapshotted before fn runs and
// restored when fn errors, so a failed unit leaves no partial writes.
type fakeTxn struct {
	runs      int
	err       error
	users     *fakeUserRepo
	locations *fakeLocationRepo
}

func (f *fakeTxn) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.runs++
	if f.err != nil {
		return f.err
	}
	usersSnap := f.users.snapshot()
	locationsSnap := f.locations.snapshot()
	if err := fn(ctx); err != nil {
		f.users.restore(usersSnap)
		f.locations.restore(locationsSnap)
		return err
	}
	return nil
}

var errTxnFailed = errors.New("transaction failed")

// newUserService wires a DefaultUserService over in-memory fakes, with
// a real location service on the same stores.
func newUserService() (*DefaultUserService, *fakeUserRepo, *fakeLocationRepo, *fakeGateway, *fakePush, *fakeTxn) {
	locations := newFakeLocationRepo()
	users := newFakeUserRepo(locations)
	gateway := &fakeGateway{valid: make(map[string]hwapi.ValidateResult)}
	push := &fakePush{}
	txn := &fakeTxn{users: users, locations: locations}

	locationSvc := &location.DefaultLocationService{
		Repo:     locations,
		UserRepo: users,
		Hw:       gateway,
		Push:     push,
		Txn:      txn,
	}
	svc := &DefaultUserService{
		Repo:         users,
		LocationRepo: locations,
		LocationSvc:  locationSvc,
		Push:         push,
		Txn:          txn,
	}
	return svc, users, locations, gateway, push, txn
}

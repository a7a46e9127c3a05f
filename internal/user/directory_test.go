package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

type fakeConn struct {
	method string
	gotID  string
	reply  map[string]any
	err    error
}

func (f *fakeConn) Invoke(_ context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	f.method = method
	f.gotID = args.(*structpb.Struct).GetFields()["id"].GetStringValue()
	if f.err != nil {
		return f.err
	}
	s, err := structpb.NewStruct(f.reply)
	if err != nil {
		return err
	}
	proto.Merge(reply.(*structpb.Struct), s)
	return nil
}

func TestGRPCDirectory_Profile(t *testing.T) {
	conn := &fakeConn{reply: map[string]any{"name": "Asha", "email": "asha@example.com", "phone": "9999999999"}}
	d := &GRPCDirectory{conn: conn}

	p, err := d.Profile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, getProfileMethod, conn.method)
	assert.Equal(t, "u-1", conn.gotID)
	assert.Equal(t, Profile{Name: "Asha", Email: "asha@example.com", Phone: "9999999999"}, p)
	assert.NoError(t, d.Close())
}

func TestGRPCDirectory_NotFound(t *testing.T) {
	d := &GRPCDirectory{conn: &fakeConn{err: status.Error(codes.NotFound, "no such user")}}
	_, err := d.Profile(context.Background(), "u-2")
	assert.True(t, errors.Is(err, ErrNotFound))

	d = &GRPCDirectory{conn: &fakeConn{err: status.Error(codes.Unavailable, "down")}}
	_, err = d.Profile(context.Background(), "u-2")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

type stubRepo struct{ users map[string]*User }

func (s *stubRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) UpdateName(_ context.Context, id, name string) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Name = name
	return u, nil
}

func (s *stubRepo) Customers(context.Context) ([]Customer, error) { return nil, nil }

func (s *stubRepo) UpdateNotes(_ context.Context, id, notes string) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Notes = notes
	return u, nil
}

func TestRepoDirectoryAndService(t *testing.T) {
	repo := &stubRepo{users: map[string]*User{"u1": {ID: "u1", Name: "Asha", Email: "a@x.io", Role: RoleCustomer}}}

	p, err := NewRepoDirectory(repo).Profile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", p.Email)

	svc := NewService(repo)
	_, err = svc.UpdateProfile(context.Background(), "u1", ProfileRequest{Name: "   "})
	assert.Equal(t, 400, apperr.Status(err))

	u, err := svc.UpdateProfile(context.Background(), "u1", ProfileRequest{Name: " Asha Rao "})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", u.Name)

	u, err = svc.UpdateNotes(context.Background(), "u1", NotesRequest{Notes: "prefers COD "})
	require.NoError(t, err)
	assert.Equal(t, "prefers COD", u.Notes)

	_, err = svc.Me(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

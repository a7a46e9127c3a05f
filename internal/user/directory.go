package user

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const getProfileMethod = "/account.v1.AccountService/GetProfile"

// Directory resolves a user id to contact details.
type Directory interface {
	Profile(ctx context.Context, userID string) (Profile, error)
}

// RepoDirectory reads profiles from the local users table.
type RepoDirectory struct{ repo Repository }

func NewRepoDirectory(repo Repository) *RepoDirectory { return &RepoDirectory{repo: repo} }

func (d *RepoDirectory) Profile(ctx context.Context, userID string) (Profile, error) {
	u, err := d.repo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Name: u.Name, Email: u.Email, Phone: u.Phone}, nil
}

// invoker is the part of *grpc.ClientConn the directory uses.
type invoker interface {
	Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error
}

// GRPCDirectory asks the account service for profiles. Messages are google.protobuf.Struct,
// so no generated stubs are needed.
type GRPCDirectory struct {
	conn invoker
	done func() error
}

func DialDirectory(addr string) (*GRPCDirectory, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &GRPCDirectory{conn: conn, done: conn.Close}, nil
}

func (d *GRPCDirectory) Close() error {
	if d.done == nil {
		return nil
	}
	return d.done()
}

func (d *GRPCDirectory) Profile(ctx context.Context, userID string) (Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := structpb.NewStruct(map[string]any{"id": userID})
	if err != nil {
		return Profile{}, err
	}
	out := &structpb.Struct{}
	if err := d.conn.Invoke(ctx, getProfileMethod, req, out, grpc.WaitForReady(true)); err != nil {
		if status.Code(err) == codes.NotFound {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	f := out.GetFields()
	return Profile{
		Name:  f["name"].GetStringValue(),
		Email: f["email"].GetStringValue(),
		Phone: f["phone"].GetStringValue(),
	}, nil
}

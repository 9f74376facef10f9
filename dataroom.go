package lawdit

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// DataRoom represents a set of documents under review.
type DataRoom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the data room contains invalid fields.
func (r *DataRoom) Validate() error {
	if r.Name == "" {
		return Errorf(EINVALID, "data room name required")
	}
	if r.Source == "" {
		return Errorf(EINVALID, "data room source required")
	}
	if _, err := ParseSourceURI(r.Source); err != nil {
		return err
	}
	return nil
}

// DataRoomService represents a service for managing data rooms.
type DataRoomService interface {
	// CreateDataRoom creates a new data room.
	// Returns ECONFLICT if a data room with the same name exists.
	CreateDataRoom(ctx context.Context, room *DataRoom) error

	// FindDataRoomByID retrieves a data room by ID.
	// Returns ENOTFOUND if data room does not exist.
	FindDataRoomByID(ctx context.Context, id string) (*DataRoom, error)

	// FindDataRooms retrieves data rooms matching the filter.
	FindDataRooms(ctx context.Context, filter DataRoomFilter) ([]*DataRoom, error)

	// UpdateDataRoom updates an existing data room.
	// Returns ENOTFOUND if data room does not exist.
	UpdateDataRoom(ctx context.Context, id string, upd DataRoomUpdate) (*DataRoom, error)

	// DeleteDataRoom permanently removes a data room with its documents and analyses.
	// Returns ENOTFOUND if data room does not exist.
	DeleteDataRoom(ctx context.Context, id string) error
}

// DataRoomFilter represents a filter for FindDataRooms.
type DataRoomFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// DataRoomUpdate represents fields that can be updated on a data room.
type DataRoomUpdate struct {
	Name   *string `json:"name"`
	Source *string `json:"source"`
}

// SourceKind identifies where a data room's files live.
type SourceKind string

// SourceKind constants.
const (
	SourceDrive SourceKind = "drive"
	SourceS3    SourceKind = "s3"
	SourceLocal SourceKind = "local"
)

// SourceLocation is a parsed data room source URI.
type SourceLocation struct {
	Kind SourceKind
	// Root is the Drive folder ID, the S3 bucket or the local directory.
	Root string
	// Prefix is the S3 key prefix. Empty for other kinds.
	Prefix string
}

// String formats the location back into its URI form.
func (l SourceLocation) String() string {
	switch l.Kind {
	case SourceDrive:
		return "drive://" + l.Root
	case SourceS3:
		if l.Prefix == "" {
			return "s3://" + l.Root
		}
		return "s3://" + l.Root + "/" + l.Prefix
	default:
		return l.Root
	}
}

// ParseSourceURI parses a data room source. Accepted forms are
// drive://FOLDER_ID, s3://BUCKET[/PREFIX], file:///path and bare paths.
func ParseSourceURI(s string) (SourceLocation, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SourceLocation{}, Errorf(EINVALID, "source required")
	}

	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return SourceLocation{Kind: SourceLocal, Root: filepath.Clean(s)}, nil
	}

	switch scheme {
	case "drive":
		id := strings.Trim(rest, "/")
		if id == "" || strings.Contains(id, "/") {
			return SourceLocation{}, Errorf(EINVALID, "invalid drive folder in %q", s)
		}
		return SourceLocation{Kind: SourceDrive, Root: id}, nil
	case "s3":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return SourceLocation{}, Errorf(EINVALID, "missing bucket in %q", s)
		}
		return SourceLocation{Kind: SourceS3, Root: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	case "file":
		u, err := url.Parse(s)
		if err != nil || u.Path == "" {
			return SourceLocation{}, Errorf(EINVALID, "invalid file URI %q", s)
		}
		return SourceLocation{Kind: SourceLocal, Root: filepath.Clean(u.Path)}, nil
	default:
		return SourceLocation{}, Errorf(EINVALID, "unsupported source scheme %q", scheme)
	}
}

package domain

import "context"

type Repository interface {
	ListSegments(ctx context.Context) ([]Segment, error)
}

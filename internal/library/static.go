package library

import "context"

// StaticProvider serves a fixed list.
type StaticProvider []File

func (p StaticProvider) Files(ctx context.Context) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]File(nil), p...), nil
}

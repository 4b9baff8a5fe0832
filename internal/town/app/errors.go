package app

import (
	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/errx"
)

// internalErr 已是 errx.Error 的原样返回（保留业务语义），其他错误包成系统错误。
func internalErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errx.As(err); ok {
		return err
	}
	return errx.ErrInternal.WithCause(err)
}

func isNotFound(err error) bool {
	return errx.CodeOf(err) == domain.CodeNotFound
}

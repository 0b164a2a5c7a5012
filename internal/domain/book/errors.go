package book

import (
	"fmt"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在（包括已封禁、已删除）
	ErrBookNotFound = apperrors.ErrBookNotFound

	// ErrDuplicateTitleAuthor 同一作者下书名重复
	ErrDuplicateTitleAuthor = apperrors.ErrDuplicateEntry

	// ErrRegisteredTitleTaken 已登记图书中书名重复
	ErrRegisteredTitleTaken = apperrors.ErrRegisteredTitle

	// ErrPriceTooLow 价格低于下限
	ErrPriceTooLow = apperrors.ErrPriceTooLow

	// ErrGenreMissing 引用的分类不存在
	ErrGenreMissing = apperrors.New(apperrors.ErrCodeInvalidParams, "引用的分类不存在")

	// ErrPublisherMissing 引用的出版社不存在
	ErrPublisherMissing = apperrors.New(apperrors.ErrCodeInvalidParams, "引用的出版社不存在")
)

// NotFoundError 生成带图书ID的not-found错误
// 错误码与ErrBookNotFound一致,errors.Is(err, ErrBookNotFound)成立
func NotFoundError(id uint) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeBookNotFound,
		Message: fmt.Sprintf("Book with id '%d' not found or is banned.", id),
		Err:     ErrBookNotFound,
	}
}

package handler

import (
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
	"github.com/xiebiao/bookcatalog/pkg/validator"
)

var (
	yearPattern     = regexp.MustCompile(`^\d{4}$`)
	twoDigitPattern = regexp.MustCompile(`^\d{2}$`)
)

// parseID 解析路径中的ID参数,失败时直接写入400响应
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, 40900, "参数错误: 无效的"+name)
		return 0, false
	}
	return uint(id), true
}

// includeRelated 是否在响应中带上分类名称
// 接受strconv.ParseBool认识的所有写法(true/True/1...)
func includeRelated(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.Query("include_related"))
	return err == nil && v
}

// parseDate 已通过dateonly校验的日期字符串 → time.Time(UTC)
func parseDate(s string) (time.Time, error) {
	return time.Parse(validator.DateLayout, s)
}

// parseDatePtr 可选日期
func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDayPath 解析/books/:year/:month/:day形式的日期
// 年4位、月日2位,并且必须是真实存在的日期
func parseDayPath(year, month, day string) (time.Time, bool) {
	if !yearPattern.MatchString(year) || !twoDigitPattern.MatchString(month) || !twoDigitPattern.MatchString(day) {
		return time.Time{}, false
	}
	t, err := parseDate(year + "-" + month + "-" + day)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// toPatch HTTP更新请求 → 领域补丁
func toPatch(title, publishedDate *string, f dto.BookFields) (book.Patch, error) {
	date, err := parseDatePtr(publishedDate)
	if err != nil {
		return book.Patch{}, err
	}
	return book.Patch{
		Title:           title,
		Author:          f.Author,
		PublishedDate:   date,
		Registered:      f.Registered,
		Managed:         f.Managed,
		PageCount:       f.PageCount,
		Price:           f.Price,
		DiscountedPrice: f.DiscountedPrice,
		PublisherID:     f.Publisher,
		GenreIDs:        f.Genres,
	}, nil
}

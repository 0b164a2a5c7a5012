package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout 日期字段的统一格式
const DateLayout = "2006-01-02"

var registerOnce sync.Once

// Register 在gin的binding引擎上注册自定义校验规则
// - dateonly: 字符串必须是YYYY-MM-DD格式的合法日期
// - notblank: 字符串去掉空白后不能为空
// 同时让错误信息使用json标签名而不是Go字段名
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("dateonly", isDateOnly)
		_ = v.RegisterValidation("notblank", isNotBlank)
		v.RegisterTagNameFunc(jsonTagName)
	})
}

func isDateOnly(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl.Field())
	if !ok {
		return false
	}
	// 可选字段为空时交给omitempty/required处理
	if s == "" {
		return true
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func isNotBlank(fl validator.FieldLevel) bool {
	s, ok := stringValue(fl.Field())
	if !ok {
		return true
	}
	return strings.TrimSpace(s) != ""
}

// stringValue 兼容string和*string字段
func stringValue(f reflect.Value) (string, bool) {
	for f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return "", true
		}
		f = f.Elem()
	}
	if f.Kind() != reflect.String {
		return "", false
	}
	return f.String(), true
}

func jsonTagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Translate 把绑定/校验错误转换为面向用户的字段级提示
// 非校验错误（如JSON语法错误）原样返回其错误信息
func Translate(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), describe(fe)))
	}
	return strings.Join(msgs, "; ")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "不能为空"
	case "max":
		return "长度不能超过" + fe.Param()
	case "min":
		return "不能小于" + fe.Param()
	case "email":
		return "邮箱格式不正确"
	case "dateonly":
		return "日期格式必须为YYYY-MM-DD"
	case "gte":
		return "必须大于等于" + fe.Param()
	default:
		return "校验失败(" + fe.Tag() + ")"
	}
}

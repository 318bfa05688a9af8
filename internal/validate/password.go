package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PasswordMinLength 密码最小长度
const PasswordMinLength = 8

// PasswordSpecialChars 密码中至少需要出现其一的特殊字符
const PasswordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// PasswordRuleHint 密码规则提示文案
const PasswordRuleHint = "密码至少 8 位，且必须包含大写字母、小写字母、数字和特殊字符"

// PasswordStrength 校验密码强度
// 长度、数字、大写、小写、特殊字符五项缺一不可
func PasswordStrength(password string) bool {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return false
	}

	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case isDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
		if strings.ContainsRune(PasswordSpecialChars, r) {
			hasSpecial = true
		}
	}

	return hasDigit && hasUpper && hasLower && hasSpecial
}

// digitSymbols Unicode 数值类型为 Digit 但不属于 Nd 的字符：上下标、带圈数字等
var digitSymbols = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00b2, Hi: 0x00b3, Stride: 1},
		{Lo: 0x00b9, Hi: 0x00b9, Stride: 1},
		{Lo: 0x1369, Hi: 0x1371, Stride: 1},
		{Lo: 0x19da, Hi: 0x19da, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247c, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24ea, Hi: 0x24ea, Stride: 1},
		{Lo: 0x24f5, Hi: 0x24fd, Stride: 1},
		{Lo: 0x24ff, Hi: 0x24ff, Stride: 1},
		{Lo: 0x2776, Hi: 0x277e, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278a, Hi: 0x2792, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x10a40, Hi: 0x10a43, Stride: 1},
		{Lo: 0x10e60, Hi: 0x10e68, Stride: 1},
		{Lo: 0x1f100, Hi: 0x1f10a, Stride: 1},
	},
	LatinOffset: 2,
}

// isDigit 十进制数字或 digitSymbols 中的数字符号均计为数字
func isDigit(r rune) bool {
	return unicode.IsDigit(r) || unicode.Is(digitSymbols, r)
}

// StrongPasswordTag 绑定校验标签名
const StrongPasswordTag = "strong_password"

// RegisterBindings 向 gin 默认校验器注册自定义标签
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation(StrongPasswordTag, func(fl validator.FieldLevel) bool {
		return PasswordStrength(fl.Field().String())
	})
}

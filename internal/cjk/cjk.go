// Package cjk 提供中日韩表意文字的判断，去重分词与“是否需要翻译”共用同一套区间
package cjk

// Is 判断 r 是否落在 CJK 统一表意文字区间（基本区 + 扩展 A 区）
func Is(r rune) bool {
	if r >= 0x4e00 && r <= 0x9fff {
		return true
	}
	if r >= 0x3400 && r <= 0x4dbf {
		return true
	}
	return false
}

// Count 统计字符串中 CJK 表意文字的个数
func Count(s string) int {
	n := 0
	for _, r := range s {
		if Is(r) {
			n++
		}
	}
	return n
}

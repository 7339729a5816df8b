package compaction

import (
	"fmt"
	"unicode/utf8"

	"github.com/valyala/fastjson"

	"tg-datalake/internal/domain"
)

// ParseEnvelope разбирает сырой объект вида {"message": {...}} в строку таблицы.
// Отсутствующий или null "message" трактуется как пустой объект.
func ParseEnvelope(data []byte) (domain.MessageRecord, error) {
	if !utf8.Valid(data) {
		return domain.MessageRecord{}, fmt.Errorf("разбор json: %w", domain.ErrInvalidText)
	}
	if offset, ok := checkSurrogates(data); !ok {
		return domain.MessageRecord{}, fmt.Errorf("разбор json: одиночный суррогат на позиции %d: %w", offset, domain.ErrInvalidText)
	}
	var p fastjson.Parser
	doc, err := p.ParseBytes(data)
	if err != nil {
		return domain.MessageRecord{}, fmt.Errorf("разбор json: %w", err)
	}
	if doc.Type() != fastjson.TypeObject {
		return domain.MessageRecord{}, fmt.Errorf("документ %s: %w", doc.Type(), domain.ErrFieldType)
	}
	return MapMessage(lookup(doc, "message"))
}

// MapMessage превращает объект сообщения в MessageRecord.
// Отсутствующие ключи и вложенные объекты дают nil, значения неверного типа — ошибку.
func MapMessage(msg *fastjson.Value) (domain.MessageRecord, error) {
	r := fieldReader{}
	message := r.object(msg, "message")
	from := r.object(lookup(message, "from"), "from")
	chat := r.object(lookup(message, "chat"), "chat")

	rec := domain.MessageRecord{
		MessageID:     r.int64(lookup(message, "message_id"), "message_id"),
		UserID:        r.int64(lookup(from, "id"), "from.id"),
		UserIsBot:     r.bool(lookup(from, "is_bot"), "from.is_bot"),
		UserFirstName: r.string(lookup(from, "first_name"), "from.first_name"),
		ChatID:        r.int64(lookup(chat, "id"), "chat.id"),
		ChatType:      r.string(lookup(chat, "type"), "chat.type"),
		Date:          r.int64(lookup(message, "date"), "date"),
		Text:          r.string(lookup(message, "text"), "text"),
	}
	if r.err != nil {
		return domain.MessageRecord{}, r.err
	}
	return rec, nil
}

// lookup возвращает значение ключа объекта; при повторе ключа побеждает последнее вхождение.
// Для nil и не-объектов возвращает nil.
func lookup(v *fastjson.Value, key string) *fastjson.Value {
	if v == nil || v.Type() != fastjson.TypeObject {
		return nil
	}
	o, err := v.Object()
	if err != nil {
		return nil
	}
	var last *fastjson.Value
	o.Visit(func(k []byte, val *fastjson.Value) {
		if string(k) == key {
			last = val
		}
	})
	return last
}

// checkSurrogates ищет \u-экранирования суррогатов без пары.
// Возвращает смещение первого такого экранирования.
func checkSurrogates(data []byte) (int, bool) {
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			continue
		}
		if i+1 >= len(data) || data[i+1] != 'u' {
			i++
			continue
		}
		r, ok := hexRune(data, i+2)
		if !ok {
			i++
			continue
		}
		switch {
		case r >= 0xDC00 && r <= 0xDFFF:
			return i, false
		case r >= 0xD800 && r <= 0xDBFF:
			if i+11 >= len(data) || data[i+6] != '\\' || data[i+7] != 'u' {
				return i, false
			}
			low, ok := hexRune(data, i+8)
			if !ok || low < 0xDC00 || low > 0xDFFF {
				return i, false
			}
			i += 11
		default:
			i += 5
		}
	}
	return 0, true
}

func hexRune(data []byte, start int) (rune, bool) {
	if start+4 > len(data) {
		return 0, false
	}
	var r rune
	for _, c := range data[start : start+4] {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return r, true
}

// fieldReader запоминает первую ошибку типа, чтобы не проверять каждое поле отдельно.
type fieldReader struct {
	err error
}

func (r *fieldReader) fail(field string, v *fastjson.Value) {
	if r.err == nil {
		r.err = fmt.Errorf("поле %s (%s): %w", field, v.Type(), domain.ErrFieldType)
	}
}

func missing(v *fastjson.Value) bool {
	return v == nil || v.Type() == fastjson.TypeNull
}

// object возвращает nil для отсутствующего объекта.
func (r *fieldReader) object(v *fastjson.Value, field string) *fastjson.Value {
	if missing(v) {
		return nil
	}
	if v.Type() != fastjson.TypeObject {
		r.fail(field, v)
		return nil
	}
	return v
}

func (r *fieldReader) int64(v *fastjson.Value, field string) *int64 {
	if missing(v) {
		return nil
	}
	n, err := v.Int64()
	if err != nil {
		r.fail(field, v)
		return nil
	}
	return &n
}

func (r *fieldReader) bool(v *fastjson.Value, field string) *bool {
	if missing(v) {
		return nil
	}
	b, err := v.Bool()
	if err != nil {
		r.fail(field, v)
		return nil
	}
	return &b
}

func (r *fieldReader) string(v *fastjson.Value, field string) *string {
	if missing(v) {
		return nil
	}
	b, err := v.StringBytes()
	if err != nil {
		r.fail(field, v)
		return nil
	}
	s := string(b)
	return &s
}

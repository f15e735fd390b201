package convert

import (
	"github.com/ccoveille/go-safecast"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/propedit/pkg/types"
)

// ToStored coerces an editor value to the canonical stored type of kind.
// Whitespace-only strings and nil convert to a successful nil. Integers are
// parsed as int64 and narrowed to int32; a value outside the int32 range is
// a failure rather than a truncation.
func (c *Converter) ToStored(value any, kind types.StorageKind) (types.ConversionResult, error) {
	if err := checkKind(kind); err != nil {
		return types.Failure(), err
	}
	value = deref(value)
	if isBlank(value) {
		return types.Success(nil), nil
	}

	switch kind {
	case types.KindText, types.KindLongText:
		if s, ok := c.toText(value); ok {
			return types.Success(s), nil
		}
	case types.KindInteger:
		wide, ok := toInt64(value)
		if !ok {
			break
		}
		narrow, err := safecast.ToInt32(wide)
		if err != nil {
			c.logger.Debug("integer outside 32-bit range", zap.Int64("value", wide))
			break
		}
		return types.Success(narrow), nil
	case types.KindDecimal:
		if d, ok := toDecimal(value); ok {
			return types.Success(d), nil
		}
	case types.KindDate:
		if t, ok := c.toDate(value); ok {
			return types.Success(t), nil
		}
	}
	return types.Failure(), nil
}

// ToStoredOrNil converts like ToStored but substitutes nil for a failed
// conversion and logs it at warn level. field names the property in the log.
func (c *Converter) ToStoredOrNil(field string, value any, kind types.StorageKind) (any, error) {
	res, err := c.ToStored(value, kind)
	if err != nil {
		return nil, err
	}
	if !res.OK {
		c.logger.Warn("could not convert editor value to storage type",
			zap.String("field", field),
			zap.String("kind", string(kind)),
			zap.Any("value", value),
		)
		return nil, nil
	}
	return res.Value, nil
}

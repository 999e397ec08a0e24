package server

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wbrown/img2dither"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// registerValidators adds the "algorithm" and "palette" tags to gin's
// shared validator engine.
func registerValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		if err := v.RegisterValidation("algorithm", validAlgorithm); err != nil {
			validatorsErr = err
			return
		}
		validatorsErr = v.RegisterValidation("palette", validPalette)
	})
	return validatorsErr
}

func validAlgorithm(fl validator.FieldLevel) bool {
	_, err := img2dither.ParseAlgorithm(fl.Field().String())
	return err == nil
}

func validPalette(fl validator.FieldLevel) bool {
	_, err := img2dither.ParsePaletteMode(fl.Field().String())
	return err == nil
}

// validationMessage flattens binding errors into one line per field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fe.Field() + ": failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
	}
	return msg
}

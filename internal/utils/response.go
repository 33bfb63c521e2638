package utils

import "github.com/labstack/echo/v4"

// JSONSuccess writes {"success": true, "data": data}.
func JSONSuccess(c echo.Context, code int, data any) error {
	return c.JSON(code, echo.Map{"success": true, "data": data})
}

// JSONError writes {"success": false, "data": {"message": message}}.
func JSONError(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"success": false, "data": echo.Map{"message": message}})
}

// JSONErrorData is JSONError with extra fields next to the message.
func JSONErrorData(c echo.Context, code int, message string, extra echo.Map) error {
	data := echo.Map{"message": message}
	for k, v := range extra {
		data[k] = v
	}
	return c.JSON(code, echo.Map{"success": false, "data": data})
}

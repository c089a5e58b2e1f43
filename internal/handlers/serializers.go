package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"recipeapi/internal/models"
	"recipeapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name" validate:"max=255"`
}

// TokenRequest is the payload for obtaining an API token.
type TokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the partial profile payload. Absent fields stay unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitnil,notblank,max=255"`
	Password *string `json:"password" validate:"omitnil,min=5"`
}

// UserResponse is the public view of a user. The password is never included.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NameRequest creates a tag or an ingredient.
type NameRequest struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// RecipeRequest is the full recipe payload used by create and PUT.
type RecipeRequest struct {
	Title       *string       `json:"title" validate:"required,notblank,max=255"`
	TimeMinutes *int          `json:"time_minutes" validate:"required,gte=0"`
	Price       *models.Price `json:"price" validate:"required"`
	Link        *string       `json:"link" validate:"omitnil,max=255"`
	Tags        []string      `json:"tags" validate:"omitempty,dive,required"`
	Ingredients []string      `json:"ingredients" validate:"omitempty,dive,required"`
}

// RecipePatchRequest is the partial recipe payload used by PATCH.
type RecipePatchRequest struct {
	Title       *string       `json:"title" validate:"omitnil,notblank,max=255"`
	TimeMinutes *int          `json:"time_minutes" validate:"omitnil,gte=0"`
	Price       *models.Price `json:"price"`
	Link        *string       `json:"link" validate:"omitnil,max=255"`
	Tags        []string      `json:"tags" validate:"omitempty,dive,required"`
	Ingredients []string      `json:"ingredients" validate:"omitempty,dive,required"`
}

func (r RecipePatchRequest) input() services.RecipeInput {
	return services.RecipeInput{
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        r.Tags,
		Ingredients: r.Ingredients,
	}
}

// RecipeResponse is the summary representation: relations are ids.
type RecipeResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	TimeMinutes int          `json:"time_minutes"`
	Price       models.Price `json:"price"`
	Link        string       `json:"link"`
	Tags        []string     `json:"tags"`
	Ingredients []string     `json:"ingredients"`
}

// RecipeDetailResponse is the detail representation: relations are expanded.
type RecipeDetailResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       models.Price        `json:"price"`
	Link        string              `json:"link"`
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}

func newRecipeResponse(r *models.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        r.TagIDs(),
		Ingredients: r.IngredientIDs(),
	}
}

func newRecipeDetailResponse(r *models.Recipe) RecipeDetailResponse {
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	return RecipeDetailResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

// newValidator returns a validator that reports json field names and knows
// the notblank rule.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// validationMessages converts validator errors into field messages.
func validationMessages(err error) map[string][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"non_field_errors": {err.Error()}}
	}
	out := make(map[string][]string, len(verrs))
	for _, e := range verrs {
		out[e.Field()] = append(out[e.Field()], fieldMessage(e))
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "notblank":
		return "this field may not be blank"
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", e.Param())
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}

// nullFields reports the fields of req that body sets to an explicit JSON
// null. Request fields are never nullable; omitting a field is how a partial
// update leaves it unchanged. Bodies that are not JSON objects are left to
// the regular decoder.
func nullFields(body []byte, req any) map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	var out map[string][]string
	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		if v, ok := raw[name]; ok && strings.TrimSpace(string(v)) == "null" {
			if out == nil {
				out = make(map[string][]string)
			}
			out[name] = append(out[name], "this field may not be null")
		}
	}
	return out
}

// bodyErrorMessages explains a request body that could not be decoded.
func bodyErrorMessages(err error) map[string][]string {
	for _, perr := range []error{
		models.ErrPriceInvalid,
		models.ErrPriceTooManyDigits,
		models.ErrPriceTooManyPlaces,
		models.ErrPriceTooManyWhole,
	} {
		if errors.Is(err, perr) {
			return map[string][]string{"price": {perr.Error()}}
		}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string][]string{typeErr.Field: {fmt.Sprintf("expected a value of type %s", typeErr.Type)}}
	}
	return map[string][]string{"non_field_errors": {"malformed request body"}}
}

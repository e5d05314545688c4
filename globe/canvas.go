package globe

// Canvas is the drawing surface in pixels; origin top-left, y down.
type Canvas struct {
	Width  float64 `json:"width" default:"1024" validate:"gt=0"`
	Height float64 `json:"height" default:"768" validate:"gt=0"`
}

func NewCanvas(width, height float64) (Canvas, error) {
	if err := CheckPositive("width", width); err != nil {
		return Canvas{}, err
	}
	if err := CheckPositive("height", height); err != nil {
		return Canvas{}, err
	}
	return Canvas{Width: width, Height: height}, nil
}

func (c Canvas) Aspect() float64 {
	return c.Width / c.Height
}

// CanvasToNDC maps a canvas pixel to NDC, origin in the centre, y up.
func (c Canvas) CanvasToNDC(cx, cy float64) (ndcX, ndcY float64, err error) {
	if err = CheckFinite("canvasX", cx); err != nil {
		return 0, 0, err
	}
	if err = CheckFinite("canvasY", cy); err != nil {
		return 0, 0, err
	}
	ndcX = 2*cx/c.Width - 1
	ndcY = 1 - 2*cy/c.Height
	return ndcX, ndcY, nil
}

// NDCToCanvas is the inverse of CanvasToNDC.
func (c Canvas) NDCToCanvas(ndcX, ndcY float64) (cx, cy float64, err error) {
	if err = CheckFinite("ndcX", ndcX); err != nil {
		return 0, 0, err
	}
	if err = CheckFinite("ndcY", ndcY); err != nil {
		return 0, 0, err
	}
	cx = (1 + ndcX) * c.Width / 2
	cy = (1 - ndcY) * c.Height / 2
	return cx, cy, nil
}

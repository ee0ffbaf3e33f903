package screen

// MousePressed is posted when a mouse button goes down on the canvas
type MousePressed struct {
	X, Y int
}

// MouseMoved is posted when the cursor position changes between frames
type MouseMoved struct {
	X, Y int
}

// KeyPressed is posted for a key press while the owning application is active
type KeyPressed struct {
	Code int
}

// Tick is posted once per rendered frame
type Tick struct {
	Frame uint64
}

func (MousePressed) ImplementsEvent() {}
func (MouseMoved) ImplementsEvent()   {}
func (KeyPressed) ImplementsEvent()   {}
func (Tick) ImplementsEvent()         {}

// Package viz is the terminal front end of a simulation session.
//
// The live view is a Bubble Tea program. Every animation frame delivers a
// [TickMsg]; the model measures the wall-clock time since the previous frame
// and hands it to the simulator's Tick, so simulated time follows real time
// multiplied by the configured speed.
//
//   - [Model]: live view over a running simulator
//   - [Canvas]: Braille dot canvas the scene is projected onto
//   - [Camera]: orthographic camera built on mgl64 transforms
//   - Themes: three built-in colour schemes
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	R       - Reset the session
//	Tab     - Select next body
//	F       - Follow the selected body
//	+/-     - Zoom
//	HJKL    - Orbit the camera
//	T       - Cycle themes
//	?       - Show help overlay
//
// The side panel shows speed, escape velocity and standard gravitational
// parameter of the selected body.
package viz

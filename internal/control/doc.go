// Package control holds the interactive session shared by the terminal and
// window hosts.
//
// A [Session] wraps the engine loop together with the state a person steers
// it through: the mode selector, the active skin, the settings panel and the
// pause flag. Hosts map their native events onto Session calls:
//
//	s := control.NewSession(control.Options{Skin: skin.Zen})
//	s.Loop.Start(surface)
//	s.SelectMode(1)      // second entry of the skin's selector
//	s.Press(x, y)        // pointer down
//	s.Frame(time.Now())  // once per refresh
//
// Settings edits go through the slider ranges in [config.Sliders]; the
// engine itself never validates them.
package control

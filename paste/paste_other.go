//go:build !linux && !darwin

package paste

import "github.com/micmonay/keybd_event"

func Init() error { return nil }

func Send() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true)
	return kb.Launching()
}

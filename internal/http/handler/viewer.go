package handler

import "github.com/gofiber/fiber/v2"

// IndexPage serves the embedded single-page scan viewer.
func IndexPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(viewerHTML)
	}
}

const viewerHTML = `<!doctype html><html><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width,initial-scale=1"/>
<title>Aetheria · Scan Viewer</title>
<style>
:root{--bg:#0f1115;--panel:#141820;--ink:#e9edf1;--muted:#9aa3af;--accent:#c7a770;--card:#161b22;--border:#252a34}
*{box-sizing:border-box}html,body{margin:0;background:var(--bg);color:var(--ink);font-family:Inter,ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif}
.wrap{max-width:1100px;margin:28px auto;padding:0 16px}
.panel{background:var(--panel);border:1px solid var(--border);border-radius:12px;padding:14px}
.row{display:grid;grid-template-columns:1fr auto;gap:10px}
.subrow{display:grid;grid-template-columns:1fr 1fr;gap:10px;margin-top:8px}
input[type=text]{background:#0c0f14;border:1px solid #222834;color:var(--ink);padding:10px 12px;border-radius:10px;outline:none}
button{background:var(--accent);color:#0d0f14;border:none;padding:10px 14px;border-radius:10px;font-weight:600;cursor:pointer}
.card{background:var(--card);border:1px solid var(--border);border-radius:12px;padding:14px;margin-top:14px}
.imgs{display:grid;grid-template-columns:repeat(3,1fr);gap:10px}
.imgs img{width:100%;height:220px;object-fit:cover;border-radius:10px;border:1px solid var(--border)}
.metrics{display:grid;grid-template-columns:repeat(3,1fr);gap:12px}
.metric{padding:12px;border:1px solid var(--border);border-radius:12px;background:#12161d}
.metric .head{display:flex;align-items:center;justify-content:space-between;margin-bottom:8px}
.bar{position:relative;height:10px;background:#0d1117;border-radius:999px;overflow:hidden;border:1px solid #1f2630}
.fill{height:100%;width:0%;background:#444}
.avg{position:absolute;top:-3px;width:2px;height:16px;background:#e9edf1;opacity:.6;border-radius:1px}
.pill{display:inline-block;font-size:11px;padding:3px 8px;border-radius:999px;border:1px solid var(--border);color:#cbd5e1}
pre{background:#0b0f14;color:#cfe3ff;border:1px solid #1b2230;border-radius:10px;padding:12px;overflow:auto}
</style></head><body>
<div class="wrap">
  <h2>Aetheria · Scan Viewer</h2>
  <div class="panel">
    <div class="row">
      <input id="url" type="text" placeholder="Paste full report URL (#/Report/newPifu_play?id=...&sign=...)">
      <div style="display:flex;gap:8px;">
        <button id="loadBtn">Load Report</button>
        <button id="saveBtn" disabled>Save Scan</button>
      </div>
    </div>
    <div class="subrow">
      <input id="id" type="text" placeholder="…or enter id">
      <input id="sign" type="text" placeholder="…and sign">
    </div>
  </div>

  <div id="content" style="display:none;">
    <div class="card">
      <div><strong id="name">—</strong></div>
      <div style="color:var(--muted)">Skin age: <span id="age">—</span> · Phone: <span id="phone">—</span> · Check ID: <span id="checkid">—</span></div>
      <div class="imgs" id="imgs"></div>
    </div>
    <div class="card"><div class="metrics" id="metrics"></div></div>
    <div class="card"><pre id="jsonOut">// JSON</pre></div>
  </div>
</div>

<script>
const $=s=>document.querySelector(s); let lastData=null;

function metricCard(m){
  const v=(typeof m.value==="number"&&isFinite(m.value))?Math.max(0,Math.min(100,m.value)):null;
  const c=(typeof m.cloudvalue==="number"&&isFinite(m.cloudvalue))?Math.max(0,Math.min(100,m.cloudvalue)):null;
  const el=document.createElement("div"); el.className="metric";
  el.innerHTML='<div class="head"><div>'+(m.label||m.key)+'</div><div class="pill" style="border-color:'+m.color+'33;color:'+m.color+'">'+(m.band||"?")+'</div></div>'+
  '<div style="display:flex;gap:14px;align-items:center;margin-bottom:6px;">'+
    '<div>'+(v===null?"—":v.toFixed(0))+'/100</div>'+
    '<div style="color:#9aa3af">avg: <strong>'+(c===null?"—":c.toFixed(1))+'</strong></div>'+
    '<div style="color:#9aa3af">Δ: <strong>'+(typeof m.delta_from_cloud==="number"?m.delta_from_cloud.toFixed(1):"—")+'</strong></div>'+
  '</div>'+
  '<div class="bar">'+
    '<div class="fill" style="width:'+(v||0)+'%;background:'+(m.color||"#555")+'"></div>'+
    (c===null?"":'<div class="avg" style="left:'+c+'%"></div>')+
  '</div>';
  return el;
}

async function ingest(){
  const url=$("#url").value.trim(), id=$("#id").value.trim(), sign=$("#sign").value.trim();
  const payload={}; if(url)payload.url=url; if(id&&sign){payload.id=id;payload.sign=sign;}
  if(!payload.url && !(payload.id&&payload.sign)){alert("Provide url or id+sign");return;}
  const r=await fetch("/ingest",{method:"POST",headers:{"Content-Type":"application/json"},body:JSON.stringify(payload)});
  const data=await r.json(); if(!r.ok){alert((data.error&&data.error.message)||"error");return;}
  lastData=data; $("#content").style.display="block";
  $("#name").textContent=data.name||"—";
  $("#age").textContent=(typeof data.skin_age==="number")?data.skin_age:"—";
  $("#phone").textContent=data.phone_masked||"—";
  $("#checkid").textContent=data.checkid??"—";

  const imgs=$("#imgs"); imgs.innerHTML=""; const sm=data.sampling_images||{};
  Object.keys(sm).forEach(k=>{const f=document.createElement("figure");const i=document.createElement("img");i.alt=k;i.src=sm[k];i.referrerPolicy="no-referrer";i.onerror=()=>{i.src="/img?u="+encodeURIComponent(sm[k])};f.appendChild(i);imgs.appendChild(f);});

  const mm=data.metrics||{}; const wrap=$("#metrics"); wrap.innerHTML="";
  Object.keys(mm).sort().forEach(k=>wrap.appendChild(metricCard(mm[k])));

  $("#jsonOut").textContent=JSON.stringify(data,null,2);
  $("#saveBtn").disabled=false;
}

async function saveScan(){
  if(!lastData){alert("Load a report first");return;}
  const r=await fetch("/scans",{method:"POST",headers:{"Content-Type":"application/json"},body:JSON.stringify({scan:lastData})});
  const j=await r.json();
  if(!r.ok){alert((j.error&&j.error.message)||"Save failed");return;}
  if(j.duplicate){alert("Already saved.\ncustomer_id: "+j.customer_id+"\nscan_id: "+j.scan_id);return;}
  alert("Saved!\ncustomer_id: "+j.customer_id+"\nsession_id: "+j.session_id+"\nscan_id: "+j.scan_id);
}

$("#loadBtn").addEventListener("click",ingest);
$("#saveBtn").addEventListener("click",saveScan);
</script>
</body></html>`
